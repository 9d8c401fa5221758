package service

import (
	"testing"

	"github.com/google/uuid"
)

func TestClientCreate(t *testing.T) {
	f := newBillingFixture(t)
	svc := NewClientService(f.clients)

	email := "billing@acme.test"
	client, err := svc.Create(f.ctx, &CreateClientInput{
		UserID: f.userID,
		Name:   "Acme Ltd",
		Email:  &email,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if client.ID == uuid.Nil {
		t.Error("no ID assigned")
	}

	_, err = svc.Create(f.ctx, &CreateClientInput{
		UserID: f.userID,
		Name:   "Acme Duplicate",
		Email:  &email,
	})
	wantAppErrorCode(t, err, 409)

	// Same email under another tenant is fine
	if _, err := svc.Create(f.ctx, &CreateClientInput{
		UserID: uuid.New(),
		Name:   "Other Tenant Acme",
		Email:  &email,
	}); err != nil {
		t.Fatalf("Create for other tenant: %v", err)
	}

	_, err = svc.Create(f.ctx, &CreateClientInput{UserID: f.userID})
	wantAppErrorCode(t, err, 422)
}

func TestClientUpdateAndScoping(t *testing.T) {
	f := newBillingFixture(t)
	svc := NewClientService(f.clients)

	name := "Renamed Ltd"
	updated, err := svc.Update(f.ctx, &UpdateClientInput{
		UserID: f.userID,
		ID:     f.clientID,
		Name:   &name,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != name {
		t.Errorf("Name = %q, want %q", updated.Name, name)
	}

	_, err = svc.Update(f.ctx, &UpdateClientInput{
		UserID: uuid.New(),
		ID:     f.clientID,
		Name:   &name,
	})
	wantAppErrorCode(t, err, 404)
}
