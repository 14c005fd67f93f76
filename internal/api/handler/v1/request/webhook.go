package request

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/festivapp/festival-api/internal/domain"
)

var knownEvents = map[string]bool{
	domain.EventWalletCredited:  true,
	domain.EventWalletDebited:   true,
	domain.EventWalletRefunded:  true,
	domain.EventWalletFrozen:    true,
	domain.EventWalletUnfrozen:  true,
	domain.EventTicketPurchased: true,
	domain.EventTicketScanned:   true,
	domain.EventTicketCancelled: true,
}

func validateEvents(events []string) error {
	for _, event := range events {
		if !knownEvents[event] {
			return fmt.Errorf("unknown event type %q", event)
		}
	}

	return nil
}

type CreateWebhookRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

func (req *CreateWebhookRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.URL, validation.Required, is.URL),
	)
	if err != nil {
		return err
	}

	return validateEvents(req.Events)
}

type UpdateWebhookRequest struct {
	URL      *string   `json:"url"`
	Events   *[]string `json:"events"`
	IsActive *bool     `json:"is_active"`
}

func (req *UpdateWebhookRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.URL, validation.NilOrNotEmpty, is.URL),
	)
	if err != nil {
		return err
	}

	if req.Events != nil {
		return validateEvents(*req.Events)
	}

	return nil
}
