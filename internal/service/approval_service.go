package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/unilink-bg/unilink-api/internal/models"
	appErrors "github.com/unilink-bg/unilink-api/pkg/errors"
)

// passwordCharset matches the credential policy for issued passwords:
// upper and lower case letters, digits, and a fixed symbol set.
const passwordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*"

const defaultPasswordLength = 12

type approvalRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Approve(ctx context.Context, id, passwordHash string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// ApprovalConfig tunes the bulk approval workflow.
type ApprovalConfig struct {
	PasswordLength int
	MaxBatchSize   int
}

// IssuedCredential reports a freshly generated password. The plaintext
// exists only in this response; it is never persisted or logged.
type IssuedCredential struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ApprovalResult summarises a bulk approval run. Processed counts only
// identities whose write committed; the run is per-row best-effort.
type ApprovalResult struct {
	Processed   int                `json:"processed"`
	Credentials []IssuedCredential `json:"credentials"`
}

// ApprovalService flips the approval flag and issues new credentials
// for selected identities. Each identity is its own transaction: a
// failure mid-batch leaves earlier approvals in place.
type ApprovalService struct {
	repo   approvalRepository
	logger *zap.Logger
	config ApprovalConfig
}

// NewApprovalService constructs the service.
func NewApprovalService(repo approvalRepository, logger *zap.Logger, config ApprovalConfig) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.PasswordLength <= 0 {
		config.PasswordLength = defaultPasswordLength
	}
	return &ApprovalService{repo: repo, logger: logger, config: config}
}

// Approve processes the selected identities.
func (s *ApprovalService) Approve(ctx context.Context, ids []string, actorID string, meta models.LoginRequest) (*ApprovalResult, error) {
	if len(ids) == 0 {
		return nil, appErrors.Validation("no identities selected", map[string]string{"ids": "at least one identity is required"})
	}
	if s.config.MaxBatchSize > 0 && len(ids) > s.config.MaxBatchSize {
		return nil, appErrors.Validation("batch too large", map[string]string{
			"ids": fmt.Sprintf("at most %d identities can be approved at once", s.config.MaxBatchSize),
		})
	}

	result := &ApprovalResult{}
	for _, id := range ids {
		user, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				s.logger.Warn("skipping unknown identity in approval batch", zap.String("user_id", id))
			} else {
				s.logger.Error("failed to load identity for approval", zap.String("user_id", id), zap.Error(err))
			}
			continue
		}

		password, err := s.generatePassword()
		if err != nil {
			s.logger.Error("failed to generate password", zap.String("user_id", id), zap.Error(err))
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("failed to hash password", zap.String("user_id", id), zap.Error(err))
			continue
		}

		if err := s.repo.Approve(ctx, id, string(hash)); err != nil {
			s.logger.Error("failed to approve identity", zap.String("user_id", id), zap.Error(err))
			continue
		}

		result.Processed++
		result.Credentials = append(result.Credentials, IssuedCredential{
			UserID:   user.ID,
			Username: user.Username,
			Password: password,
		})

		payload, _ := json.Marshal(map[string]interface{}{"is_approved": true})
		if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
			UserID:     &actorID,
			Action:     models.AuditActionApprove,
			Resource:   "users",
			ResourceID: &user.ID,
			NewValues:  payload,
			IPAddress:  meta.IP,
			UserAgent:  meta.UserAgent,
		}); err != nil {
			s.logger.Warn("failed to record approval audit log", zap.Error(err))
		}
	}

	return result, nil
}

func (s *ApprovalService) generatePassword() (string, error) {
	length := s.config.PasswordLength
	buf := make([]byte, length)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = passwordCharset[n.Int64()]
	}
	return string(buf), nil
}
