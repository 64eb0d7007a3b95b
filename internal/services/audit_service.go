package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

const maxActivityPageSize = 100

var (
	ErrInvalidUserID         = errors.New("invalid user ID")
	ErrInvalidActivityFilter = errors.New("invalid activity filter")
)

type clientInfoKey struct{}

// ClientInfo identifies the caller of a request in the audit trail.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// WithClientInfo attaches the caller's address and user agent to ctx.
func WithClientInfo(ctx context.Context, ipAddress, userAgent string) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, ClientInfo{IPAddress: ipAddress, UserAgent: userAgent})
}

func ClientInfoFromContext(ctx context.Context) ClientInfo {
	if ctx == nil {
		return ClientInfo{}
	}
	info, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info
}

// AuditService handles audit logging operations
type AuditService struct {
	repo   repositories.AuditLogRepositoryInterface
	logger *slog.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo repositories.AuditLogRepositoryInterface, logger *slog.Logger) AuditServiceInterface {
	return &AuditService{
		repo:   repo,
		logger: logger,
	}
}

// Record stores an audit entry. A failure to write the trail is logged and
// never fails the operation being audited.
func (s *AuditService) Record(ctx context.Context, userID *uuid.UUID, action, resource, resourceID string, metadata map[string]interface{}) {
	info := ClientInfoFromContext(ctx)
	if info.IPAddress == "" {
		info = ClientInfo{IPAddress: "system", UserAgent: "internal"}
	}

	log := &models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  info.IPAddress,
		UserAgent:  info.UserAgent,
	}
	for k, v := range metadata {
		log.SetMetadata(k, v)
	}

	if err := s.repo.Create(log); err != nil {
		s.logger.ErrorContext(ctx, "failed to create audit log",
			"action", action,
			"resource", resource,
			"resource_id", resourceID,
			"error", err,
		)
	}
}

// GetUserActivity pages through a user's audit trail, newest first,
// optionally narrowed to one resource kind or one resource.
func (s *AuditService) GetUserActivity(userID uuid.UUID, filter models.ActivityFilter) ([]*models.AuditLog, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, ErrInvalidUserID
	}

	filter.Resource = strings.ToLower(strings.TrimSpace(filter.Resource))
	if filter.Resource != "" && !models.IsValidAuditResource(filter.Resource) {
		return nil, 0, fmt.Errorf("%w: unknown resource %q", ErrInvalidActivityFilter, filter.Resource)
	}
	filter.ResourceID = strings.TrimSpace(filter.ResourceID)

	filter.Offset = max(filter.Offset, 0)
	if filter.Limit <= 0 || filter.Limit > maxActivityPageSize {
		filter.Limit = maxActivityPageSize
	}

	return s.repo.ListForUser(userID, filter)
}
