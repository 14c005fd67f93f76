package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignupRequest_Validate(t *testing.T) {
	valid := SignupRequest{
		Email:           "ana@example.com",
		Password:        "s3curepass",
		ConfirmPassword: "s3curepass",
		Name:            "Ana",
		Role:            "visitor",
	}

	tests := []struct {
		name    string
		mutate  func(r *SignupRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *SignupRequest) {}},
		{name: "bad email", mutate: func(r *SignupRequest) { r.Email = "not-an-email" }, wantErr: true},
		{name: "unknown role", mutate: func(r *SignupRequest) { r.Role = "superadmin" }, wantErr: true},
		{name: "password too short", mutate: func(r *SignupRequest) { r.Password = "a1"; r.ConfirmPassword = "a1" }, wantErr: true},
		{name: "password without a digit", mutate: func(r *SignupRequest) { r.Password = "lettersonly"; r.ConfirmPassword = "lettersonly" }, wantErr: true},
		{name: "password without a letter", mutate: func(r *SignupRequest) { r.Password = "12345678"; r.ConfirmPassword = "12345678" }, wantErr: true},
		{name: "confirm mismatch", mutate: func(r *SignupRequest) { r.ConfirmPassword = "s3curepass2" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssignStaffRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     AssignStaffRequest
		wantErr bool
	}{
		{name: "valid with PIN", req: AssignStaffRequest{UserID: 1, Role: "CASHIER", PIN: "1234"}},
		{name: "valid without PIN", req: AssignStaffRequest{UserID: 1, Role: "MANAGER"}},
		{name: "PIN too short", req: AssignStaffRequest{UserID: 1, Role: "CASHIER", PIN: "12"}, wantErr: true},
		{name: "PIN too long", req: AssignStaffRequest{UserID: 1, Role: "CASHIER", PIN: "123456789"}, wantErr: true},
		{name: "PIN with letters", req: AssignStaffRequest{UserID: 1, Role: "CASHIER", PIN: "12ab"}, wantErr: true},
		{name: "unknown role", req: AssignStaffRequest{UserID: 1, Role: "OWNER", PIN: "1234"}, wantErr: true},
		{name: "missing user", req: AssignStaffRequest{Role: "CASHIER", PIN: "1234"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDebitRequest_Validate(t *testing.T) {
	productID := uint(7)

	tests := []struct {
		name    string
		req     DebitRequest
		wantErr bool
	}{
		{name: "product purchase needs no amount", req: DebitRequest{StandID: 1, ProductID: &productID, Quantity: 2}},
		{name: "free-form amount", req: DebitRequest{StandID: 1, Amount: 300}},
		{name: "no product and no amount", req: DebitRequest{StandID: 1}, wantErr: true},
		{name: "negative amount", req: DebitRequest{StandID: 1, Amount: -5}, wantErr: true},
		{name: "negative quantity", req: DebitRequest{StandID: 1, ProductID: &productID, Quantity: -1}, wantErr: true},
		{name: "missing stand", req: DebitRequest{Amount: 300}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTopUpRequest_Validate(t *testing.T) {
	assert.NoError(t, (&TopUpRequest{Amount: 1000, PaymentMethodID: "pm_card"}).Validate())
	assert.Error(t, (&TopUpRequest{Amount: 1000}).Validate(), "payment method is required")
	assert.Error(t, (&TopUpRequest{PaymentMethodID: "pm_card"}).Validate(), "amount is required")
	assert.Error(t, (&TopUpRequest{Amount: -10, PaymentMethodID: "pm_card"}).Validate())
}

func TestCreateFestivalRequest_Validate(t *testing.T) {
	starts := time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)
	ends := starts.Add(48 * time.Hour)
	valid := CreateFestivalRequest{Name: "Sunwave", StartsAt: starts, EndsAt: ends}

	tests := []struct {
		name    string
		mutate  func(req *CreateFestivalRequest)
		wantErr bool
	}{
		{name: "valid without slug", mutate: func(req *CreateFestivalRequest) {}},
		{name: "valid slug", mutate: func(req *CreateFestivalRequest) { req.Slug = "sunwave-2026" }},
		{name: "uppercase slug", mutate: func(req *CreateFestivalRequest) { req.Slug = "Sunwave" }, wantErr: true},
		{name: "slug with spaces", mutate: func(req *CreateFestivalRequest) { req.Slug = "sun wave" }, wantErr: true},
		{name: "slug with trailing dash", mutate: func(req *CreateFestivalRequest) { req.Slug = "sunwave-" }, wantErr: true},
		{name: "ends before it starts", mutate: func(req *CreateFestivalRequest) { req.EndsAt = starts.Add(-time.Hour) }, wantErr: true},
		{name: "missing name", mutate: func(req *CreateFestivalRequest) { req.Name = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateWebhookRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateWebhookRequest
		wantErr bool
	}{
		{name: "valid", req: CreateWebhookRequest{URL: "https://example.com/hook", Events: []string{"wallet.debited", "ticket.scanned"}}},
		{name: "empty events subscribes to all", req: CreateWebhookRequest{URL: "https://example.com/hook"}},
		{name: "unknown event", req: CreateWebhookRequest{URL: "https://example.com/hook", Events: []string{"wallet.exploded"}}, wantErr: true},
		{name: "missing URL", req: CreateWebhookRequest{Events: []string{"wallet.debited"}}, wantErr: true},
		{name: "bad URL", req: CreateWebhookRequest{URL: "not a url", Events: []string{"wallet.debited"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateWebhookRequest_Validate(t *testing.T) {
	badEvents := []string{"nope"}
	goodEvents := []string{"wallet.credited"}
	active := true

	assert.NoError(t, (&UpdateWebhookRequest{Events: &goodEvents, IsActive: &active}).Validate())
	assert.NoError(t, (&UpdateWebhookRequest{}).Validate(), "all fields optional")
	assert.Error(t, (&UpdateWebhookRequest{Events: &badEvents}).Validate())
}
