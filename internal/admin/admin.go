// Package admin binds the backend entities to the tabular list machinery.
// Each entity gets an Adapter that declares its columns, materializes
// records with localized display values, and forwards mutations to the API.
package admin

import (
	"context"

	"github.com/kinetta/takeoffctl/internal/tabular"
)

// Adapter is one entity list page.
type Adapter interface {
	// Name is the entity key used on the command line, e.g. "clientes".
	Name() string
	// Title is the list heading.
	Title() string
	// Columns returns the entity's column definitions.
	Columns() []tabular.Column
	// Fetch returns all records. forceRefresh bypasses the service cache.
	Fetch(ctx context.Context, forceRefresh bool) ([]tabular.Record, error)
	// Search asks the service for records matching the term.
	Search(ctx context.Context, term string) ([]tabular.Record, error)
	// Delete removes (or deactivates) a record.
	Delete(ctx context.Context, id string) error
	// DeleteConfirm describes the confirmation prompt for a record.
	DeleteConfirm(rec tabular.Record) ConfirmSpec
	// FormFields returns the editable fields, prefilled from rec when
	// editing. A nil rec means a create form.
	FormFields(rec *tabular.Record) []FormField
	// Save creates (id empty) or updates a record from form values and
	// returns a success message.
	Save(ctx context.Context, id string, values map[string]string) (string, error)
}

// Refresher is implemented by adapters whose data can change from outside
// the list view. The view subscribes and reloads on every signal.
type Refresher interface {
	Subscribe() (<-chan struct{}, func())
}

// RelatedLister is implemented by adapters whose records open a child list,
// e.g. a take-off drilling down into its products. Related returns the
// adapter for the child list, or false when the record has none.
type RelatedLister interface {
	Related(rec tabular.Record) (Adapter, bool)
}

// ConfirmSpec is the payload of a confirmation dialog.
type ConfirmSpec struct {
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
}

// FormField is one editable field of an entity form.
type FormField struct {
	Key      string
	Label    string
	Value    string
	Required bool
}
