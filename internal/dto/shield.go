package dto

// ShieldRequestDetails describes the inbound HTTP request being screened.
type ShieldRequestDetails struct {
	IP        string            `json:"ip"`
	Method    string            `json:"method"`
	Protocol  string            `json:"protocol"`
	Host      string            `json:"host"`
	Path      string            `json:"path"`
	Headers   map[string]string `json:"headers"`
	UserAgent string            `json:"user_agent,omitempty"`
}

type ShieldRule struct {
	Type  string   `json:"type"`
	Mode  string   `json:"mode"`
	Allow []string `json:"allow,omitempty"`
}

type ShieldDecideRequest struct {
	Details ShieldRequestDetails `json:"details"`
	Rules   []ShieldRule         `json:"rules"`
}

type ShieldReason struct {
	Type   string `json:"type"`
	Bot    string `json:"bot,omitempty"`
	Detail string `json:"detail,omitempty"`
}

type ShieldDecideResponse struct {
	ID         string        `json:"id"`
	Conclusion string        `json:"conclusion"`
	Reason     *ShieldReason `json:"reason,omitempty"`
	TTL        int           `json:"ttl,omitempty"`
}

type ShieldErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ShieldDecision is the outcome applied to a screened request. Allowed is
// false only for a live DENY.
type ShieldDecision struct {
	ID         string `json:"id,omitempty"`
	Allowed    bool   `json:"allowed"`
	Conclusion string `json:"conclusion"`
	Reason     string `json:"reason,omitempty"`
	DryRun     bool   `json:"dry_run"`
	FailedOpen bool   `json:"failed_open,omitempty"`
}
