package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// AlertService sends operator alerts via Amazon SES. Alerts cover
// conditions a player never sees, like the daily selector running out
// of eligible cars.
type AlertService struct {
	client    *sesv2.Client
	fromEmail string
	toEmail   string
	enabled   bool
}

// NewAlertService creates a new alert service. With no from or to
// address configured the service logs alerts instead of emailing them.
func NewAlertService(awsRegion, fromEmail, toEmail string) (*AlertService, error) {
	if fromEmail == "" || toEmail == "" {
		log.Println("Alert service disabled: ALERT_FROM_EMAIL or ALERT_TO_EMAIL not configured")
		return &AlertService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Alert service enabled: from=%s, to=%s, region=%s", fromEmail, toEmail, awsRegion)

	return &AlertService{
		client:    client,
		fromEmail: fromEmail,
		toEmail:   toEmail,
		enabled:   true,
	}, nil
}

// IsEnabled returns whether the alert service is enabled
func (s *AlertService) IsEnabled() bool {
	return s.enabled
}

// SendSelectionFailure alerts the operator that no daily car could be
// assigned for the given day
func (s *AlertService) SendSelectionFailure(ctx context.Context, day time.Time, attempts int, cause error) error {
	subject := fmt.Sprintf("Cardle: no daily car assigned for %s", day.Format("2006-01-02"))
	body := fmt.Sprintf(`The daily car selector gave up for %s after %d attempts.

Cause: %v

Annotate more cars or check the catalog for stale entries.
`, day.Format("2006-01-02"), attempts, cause)

	return s.send(ctx, subject, body)
}

// SendCatalogLow alerts the operator that few eligible cars remain
func (s *AlertService) SendCatalogLow(ctx context.Context, remaining int) error {
	subject := fmt.Sprintf("Cardle: only %d eligible cars left", remaining)
	body := fmt.Sprintf(`The catalog has %d cars with reveal regions that have not yet been
used as a daily game. Annotate more cars soon.
`, remaining)

	return s.send(ctx, subject, body)
}

// send delivers an alert email through Amazon SES
func (s *AlertService) send(ctx context.Context, subject, body string) error {
	if !s.enabled {
		log.Printf("Skipping alert email (service disabled): %s", subject)
		return nil
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{s.toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	log.Printf("Alert email sent: %s", subject)
	return nil
}
