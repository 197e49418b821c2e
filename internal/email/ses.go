// Package email sends transactional mail through Amazon SES.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/config"
)

// sesClient is an interface for testability.
type sesClient interface {
	SendEmail(ctx context.Context, input *sesv2.SendEmailInput, opts ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Service sends email via SES. With no from-address configured it is
// disabled and every send is a logged no-op.
type Service struct {
	client    sesClient
	fromEmail string
	fromName  string
	logger    *slog.Logger
}

// NewService builds the SES client from the ambient AWS credential chain.
// An empty FromEmail yields a disabled service.
func NewService(ctx context.Context, cfg config.EmailConfig, logger *slog.Logger) (*Service, error) {
	logger = logger.With("component", "email")
	if cfg.FromEmail == "" {
		logger.Info("email disabled: no from address configured")
		return &Service{logger: logger}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	logger.Info("email enabled", "from", cfg.FromEmail, "region", cfg.Region)
	return &Service{
		client:    sesv2.NewFromConfig(awsCfg),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}, nil
}

// Enabled reports whether sends will actually go out.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// Send delivers a single email. Disabled services log and return nil.
func (s *Service) Send(ctx context.Context, toEmail, subject, textBody string) error {
	if !s.Enabled() {
		s.logger.Info("skipping email send (disabled)", "to", toEmail, "subject", subject)
		return nil
	}

	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email to %s: %w", toEmail, err)
	}
	return nil
}
