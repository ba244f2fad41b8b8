package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/shop-booking/internal/domain/booking"
	"github.com/BruksfildServices01/shop-booking/internal/validators"
)

// Sender delivers one notification synchronously.
type Sender interface {
	Send(ctx context.Context, n domain.Notification) error
}

// Contacts are the phone numbers a notification is addressed to.
type Contacts struct {
	OwnerPhone string
	ShopPhone  string
}

type Directory interface {
	Contacts(ctx context.Context, shopID, vehicleID uint) (Contacts, error)
}

// ===============================
// Log
// ===============================

type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, n domain.Notification) error {
	s.log.Info("notification",
		zap.String("kind", n.Kind),
		zap.Uint("booking_id", n.BookingID),
		zap.Uint("shop_id", n.ShopID),
		zap.String("text", Render(n)),
	)
	return nil
}

// ===============================
// Twilio SMS
// ===============================

var ErrInvalidPhone = errors.New("phone is not in E.164 format")

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type SMSSender struct {
	api  messageCreator
	from string
	dir  Directory
}

func NewSMSSender(accountSID, authToken, from string, dir Directory) *SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSSender{api: client.Api, from: from, dir: dir}
}

// Send texts the owner and the shop. Reminders go to the owner only.
func (s *SMSSender) Send(ctx context.Context, n domain.Notification) error {
	c, err := s.dir.Contacts(ctx, n.ShopID, n.VehicleID)
	if err != nil {
		return fmt.Errorf("resolve contacts: %w", err)
	}

	to := []string{c.OwnerPhone}
	if n.Kind != domain.EventBookingReminder {
		to = append(to, c.ShopPhone)
	}

	body := Render(n)
	var errs []error
	for _, phone := range to {
		if phone == "" {
			continue
		}
		if !validators.IsE164(phone) {
			errs = append(errs, fmt.Errorf("sms to %q: %w", phone, ErrInvalidPhone))
			continue
		}
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(phone)
		params.SetFrom(s.from)
		params.SetBody(body)

		if _, err := s.api.CreateMessage(params); err != nil {
			errs = append(errs, fmt.Errorf("sms to %s: %w", phone, err))
		}
	}
	return errors.Join(errs...)
}
