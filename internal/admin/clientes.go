package admin

import (
	"context"
	"fmt"

	"github.com/kinetta/takeoffctl/internal/api"
	"github.com/kinetta/takeoffctl/internal/tabular"
)

// Clientes adapts the client entity.
type Clientes struct {
	svc *api.ClienteService
}

// NewClientes builds the client list adapter.
func NewClientes(svc *api.ClienteService) *Clientes {
	return &Clientes{svc: svc}
}

func (a *Clientes) Name() string  { return "clientes" }
func (a *Clientes) Title() string { return "Clientes" }

func (a *Clientes) Columns() []tabular.Column {
	return []tabular.Column{
		{Key: "id", Label: "Código", Type: tabular.ColumnText, Sortable: true, Visible: true},
		{Key: "nombre", Label: "Nombre", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "rut", Label: "RUT", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "email", Label: "Email", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "telefono", Label: "Teléfono", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "direccion", Label: "Dirección", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "estado", Label: "Estado", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "actions", Label: "Acciones", Type: tabular.ColumnActions, Visible: true},
	}
}

func (a *Clientes) Fetch(ctx context.Context, forceRefresh bool) ([]tabular.Record, error) {
	clientes, err := a.svc.GetAll(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	return clienteRecords(clientes), nil
}

func (a *Clientes) Search(ctx context.Context, term string) ([]tabular.Record, error) {
	clientes, err := a.svc.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return clienteRecords(clientes), nil
}

func (a *Clientes) Delete(ctx context.Context, id string) error {
	return a.svc.Delete(ctx, id)
}

func (a *Clientes) DeleteConfirm(rec tabular.Record) ConfirmSpec {
	return ConfirmSpec{
		Title:       "Desactivar cliente",
		Message:     fmt.Sprintf("¿Desea desactivar el cliente %s? El registro se conserva como inactivo.", rec.Cell("nombre")),
		ConfirmText: "Desactivar",
		CancelText:  "Cancelar",
	}
}

func (a *Clientes) FormFields(rec *tabular.Record) []FormField {
	var c api.Cliente
	if rec != nil {
		if raw, ok := rec.Raw.(api.Cliente); ok {
			c = raw
		}
	}
	return []FormField{
		{Key: "nombre_empresa", Label: "Nombre", Value: c.NombreEmpresa, Required: true},
		{Key: "rut", Label: "RUT", Value: c.RUT},
		{Key: "email_contacto", Label: "Email", Value: c.EmailContacto},
		{Key: "telefono_contacto", Label: "Teléfono", Value: c.TelefonoContacto},
		{Key: "direccion", Label: "Dirección", Value: c.Direccion},
		{Key: "estado", Label: "Estado", Value: c.Estado},
	}
}

func (a *Clientes) Save(ctx context.Context, id string, values map[string]string) (string, error) {
	data := api.Cliente{
		NombreEmpresa:    values["nombre_empresa"],
		RUT:              values["rut"],
		EmailContacto:    values["email_contacto"],
		TelefonoContacto: values["telefono_contacto"],
		Direccion:        values["direccion"],
		Estado:           values["estado"],
	}

	if id == "" {
		if _, err := a.svc.Create(ctx, data); err != nil {
			return "", err
		}
		return "Cliente creado correctamente", nil
	}
	if _, err := a.svc.Update(ctx, id, data); err != nil {
		return "", err
	}
	return "Cliente actualizado correctamente", nil
}

func clienteRecords(clientes []api.Cliente) []tabular.Record {
	out := make([]tabular.Record, len(clientes))
	for i, c := range clientes {
		out[i] = tabular.Record{
			ID: c.ID,
			Cells: map[string]string{
				"id":        c.Codigo,
				"nombre":    c.NombreEmpresa,
				"rut":       c.RUT,
				"email":     c.EmailContacto,
				"telefono":  c.TelefonoContacto,
				"direccion": c.Direccion,
				"estado":    c.Estado,
			},
			Raw: c,
		}
	}
	return out
}
