package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/telecomsupply/internal/models"
)

// Fixture is the YAML document the seed command loads.
type Fixture struct {
	Users   []FixtureUser   `yaml:"users"`
	Clients []models.Client `yaml:"clients"`
}

type FixtureUser struct {
	Email       string `yaml:"email"`
	DisplayName string `yaml:"display_name"`
	Password    string `yaml:"password"`
}

// decodeFixture parses a fixture and fills in what the file may omit.
// Clients without an id get a fresh one on every run, so only clients with
// fixed ids can be skipped as already seeded.
func decodeFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}

	seen := make(map[string]bool)
	for i := range f.Clients {
		c := &f.Clients[i]
		if c.Name == "" {
			return nil, fmt.Errorf("client #%d: name is required", i+1)
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("client %s: duplicate id", c.ID)
		}
		seen[c.ID] = true

		for j := range c.Invoices {
			inv := &c.Invoices[j]
			if inv.ID == "" {
				inv.ID = uuid.New().String()
			}
			inv.ClientID = c.ID
			if inv.ClientName == "" {
				inv.ClientName = c.Name
			}
			if inv.Status == "" {
				inv.Status = models.StatusDueSoon
			}
			if !inv.Status.Valid() {
				return nil, fmt.Errorf("client %s, invoice %q: unknown status %q", c.Name, inv.Concept, inv.Status)
			}
			if inv.DueDate.IsZero() {
				return nil, fmt.Errorf("client %s, invoice %q: due_date is required", c.Name, inv.Concept)
			}
		}
	}

	for i, u := range f.Users {
		if u.Email == "" || u.Password == "" {
			return nil, fmt.Errorf("user #%d: email and password are required", i+1)
		}
	}

	return &f, nil
}
