package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mbelyaev/postboard/internal/common"
	"github.com/mbelyaev/postboard/internal/dbx"
	"github.com/mbelyaev/postboard/internal/logging"
	"github.com/mbelyaev/postboard/internal/server/auth"
	"github.com/mbelyaev/postboard/internal/server/config"
	"github.com/mbelyaev/postboard/internal/server/mailer"
	"github.com/mbelyaev/postboard/internal/server/repositories/repomanager"
)

// ResetResult is the soft response of a reset request. RequestReset never
// raises: every downstream failure collapses into Success=false plus a
// message, so the caller flow is never disrupted.
type ResetResult struct {
	Success bool
	Message string
}

// ResetFlowService orchestrates password-reset issuance and redemption:
// signing a reset token, persisting the single-use record, triggering email
// delivery, and consuming the token on completion.
type ResetFlowService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	mail      mailer.Mailer
	resetTTL  time.Duration
	linkBase  string
	logger    logging.Logger
}

func NewResetFlowService(db *sql.DB, repos repomanager.RepositoryManager, passwords *auth.PasswordService, tokens *auth.TokenService, mail mailer.Mailer, cfg *config.Config, logger logging.Logger) *ResetFlowService {
	return &ResetFlowService{
		db:        db,
		repos:     repos,
		passwords: passwords,
		tokens:    tokens,
		mail:      mail,
		resetTTL:  cfg.ResetTokenValidityDuration,
		linkBase:  cfg.ResetLinkBaseURL,
		logger:    logger.With("module", "reset_flow"),
	}
}

// RequestReset issues a reset token for the account behind email, stores the
// record, and triggers delivery of the reset link.
func (s *ResetFlowService) RequestReset(ctx context.Context, email string) ResetResult {
	user, err := s.repos.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ResetResult{Success: false, Message: "User with this email does not exist."}
		}
		s.logger.Error(ctx, "reset request lookup failed", "error", err.Error())
		return ResetResult{Success: false, Message: "Unable to process password reset request."}
	}

	token, err := s.tokens.IssueResetToken(user.ID)
	if err != nil {
		s.logger.Error(ctx, "reset token issue failed", "error", err.Error())
		return ResetResult{Success: false, Message: "Unable to process password reset request."}
	}

	repo := s.repos.ResetTokens(s.db)

	// Exactly one active token per request cycle.
	if err := repo.DeleteForUser(ctx, user.ID); err != nil {
		s.logger.Error(ctx, "reset token cleanup failed", "error", err.Error())
		return ResetResult{Success: false, Message: "Unable to process password reset request."}
	}
	if err := repo.Create(ctx, user.ID, token, s.resetTTL); err != nil {
		s.logger.Error(ctx, "reset token store failed", "error", err.Error())
		return ResetResult{Success: false, Message: "Unable to process password reset request."}
	}

	link := s.linkBase + "?token=" + token
	body := "A password reset was requested for your account.\r\n\r\n" +
		"Follow this link to choose a new password: " + link + "\r\n\r\n" +
		"The link expires in " + s.resetTTL.String() + ". If you did not request this, ignore this message."

	if err := s.mail.Send(ctx, user.Email, "Password Reset", body); err != nil {
		s.logger.Error(ctx, "reset email delivery failed", "error", err.Error())
		return ResetResult{Success: false, Message: "Unable to process password reset request."}
	}

	return ResetResult{Success: true, Message: "Password reset link has been sent to your email."}
}

// CompleteReset redeems a presented reset token and rotates the password.
// The stored record is deleted in the same transaction as the password
// update, so a token can be redeemed at most once.
func (s *ResetFlowService) CompleteReset(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return common.NewError(common.ErrorValidation, "New password cannot be empty")
	}

	userID, err := s.tokens.VerifyResetToken(token)
	if err != nil {
		return common.NewError(common.ErrorAuthentication, "Invalid or expired reset token")
	}

	record, err := s.repos.ResetTokens(s.db).Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Unknown or already consumed.
			return common.NewError(common.ErrorAuthentication, "Invalid or expired reset token")
		}
		return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	if record.UserID != userID || record.ExpirationDate.Before(time.Now()) {
		return common.NewError(common.ErrorAuthentication, "Invalid or expired reset token")
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Users(tx).UpdatePassword(ctx, userID, hash); err != nil {
			return err
		}
		return s.repos.ResetTokens(tx).Delete(ctx, token)
	}); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewError(common.ErrorNotFound, "User not found")
		}
		return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	return nil
}
