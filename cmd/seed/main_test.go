package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/telecomsupply/internal/auth"
	"github.com/mmynk/telecomsupply/internal/models"
	"github.com/mmynk/telecomsupply/internal/storage/sqlite"
)

func TestDecodeFixture_Demo(t *testing.T) {
	file, err := os.Open(filepath.Join("fixtures", "demo.yaml"))
	require.NoError(t, err)
	defer file.Close()

	f, err := decodeFixture(file)
	require.NoError(t, err)

	require.Len(t, f.Users, 1)
	require.Len(t, f.Clients, 4)

	first := f.Clients[0]
	assert.Equal(t, "Telecom Solutions S.A.", first.Name)
	require.Len(t, first.Invoices, 2)

	paid := first.Invoices[0]
	assert.NotEmpty(t, paid.ID)
	assert.Equal(t, first.ID, paid.ClientID)
	assert.Equal(t, first.Name, paid.ClientName)
	assert.True(t, paid.Amount.Equal(decimal.NewFromInt(15500)))
	assert.Equal(t, models.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)
	assert.Equal(t, "2024-02-10", paid.PaidDate.String())
	assert.Nil(t, first.Invoices[1].PaidDate)
}

func TestDecodeFixture_Defaults(t *testing.T) {
	f, err := decodeFixture(strings.NewReader(`
clients:
  - name: Nuevo Cliente
    invoices:
      - concept: Kit RF
        amount: "100.50"
        due_date: "2025-01-01"
`))
	require.NoError(t, err)
	require.Len(t, f.Clients, 1)

	c := f.Clients[0]
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, models.StatusDueSoon, c.Invoices[0].Status)
	assert.Equal(t, c.ID, c.Invoices[0].ClientID)
}

func TestDecodeFixture_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "clients:\n  - name: A\n    colour: red\n"},
		{"missing name", "clients:\n  - email: a@b.com\n"},
		{"duplicate id", "clients:\n  - id: x\n    name: A\n  - id: x\n    name: B\n"},
		{"bad status", "clients:\n  - name: A\n    invoices:\n      - concept: c\n        amount: \"1\"\n        due_date: \"2024-01-01\"\n        status: anulado\n"},
		{"missing due date", "clients:\n  - name: A\n    invoices:\n      - concept: c\n        amount: \"1\"\n"},
		{"bad date", "clients:\n  - name: A\n    invoices:\n      - concept: c\n        due_date: 01/02/2024\n"},
		{"user without password", "users:\n  - email: a@b.com\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeFixture(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestDecodeFixture_Empty(t *testing.T) {
	f, err := decodeFixture(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Clients)
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer store.Close()

	load := func() *Fixture {
		file, err := os.Open(filepath.Join("fixtures", "demo.yaml"))
		require.NoError(t, err)
		defer file.Close()
		f, err := decodeFixture(file)
		require.NoError(t, err)
		return f
	}

	f := load()
	n, err := seedClients(ctx, store, f.Clients, false)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	n, err = seedUsers(ctx, store, f.Users)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A second run skips everything.
	f = load()
	n, err = seedClients(ctx, store, f.Clients, false)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = seedUsers(ctx, store, f.Users)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = seedClients(ctx, store, f.Clients, true)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	clients, err := store.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 4)
	assert.Equal(t, "Redes Móviles del Norte", clients[1].Name)

	// The seeded account can sign in.
	user, err := auth.NewPasswordAuthenticator(store).Authenticate(ctx, "Admin@TelecomSupply.com", "telecom2024")
	require.NoError(t, err)
	assert.Equal(t, "Administración", user.DisplayName)
}
