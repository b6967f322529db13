package admin

import (
	"context"
	"fmt"

	"github.com/kinetta/takeoffctl/internal/api"
	"github.com/kinetta/takeoffctl/internal/tabular"
	"github.com/kinetta/takeoffctl/internal/tabular/esformat"
)

// Proyectos adapts the project entity.
type Proyectos struct {
	svc *api.ProyectoService
}

// NewProyectos builds the project list adapter.
func NewProyectos(svc *api.ProyectoService) *Proyectos {
	return &Proyectos{svc: svc}
}

func (a *Proyectos) Name() string  { return "proyectos" }
func (a *Proyectos) Title() string { return "Proyectos" }

func (a *Proyectos) Columns() []tabular.Column {
	return []tabular.Column{
		{Key: "id", Label: "Código", Type: tabular.ColumnText, Sortable: true, Visible: true},
		{Key: "nombre", Label: "Nombre", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "cliente", Label: "Cliente", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "ubicacion", Label: "Ubicación", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "fechaInicio", Label: "Fecha Inicio", Type: tabular.ColumnDate, Sortable: true, Draggable: true, Visible: true},
		{Key: "fechaEntrega", Label: "Fecha Entrega", Type: tabular.ColumnDate, Sortable: true, Draggable: true, Visible: true},
		{Key: "estado", Label: "Estado", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "presupuesto", Label: "Presupuesto", Type: tabular.ColumnNumber, Sortable: true, Draggable: true, Visible: false},
		{Key: "actions", Label: "Acciones", Type: tabular.ColumnActions, Visible: true},
	}
}

func (a *Proyectos) Fetch(ctx context.Context, forceRefresh bool) ([]tabular.Record, error) {
	proyectos, err := a.svc.GetAll(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	return proyectoRecords(proyectos), nil
}

func (a *Proyectos) Search(ctx context.Context, term string) ([]tabular.Record, error) {
	proyectos, err := a.svc.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return proyectoRecords(proyectos), nil
}

func (a *Proyectos) Delete(ctx context.Context, id string) error {
	return a.svc.Delete(ctx, id)
}

func (a *Proyectos) DeleteConfirm(rec tabular.Record) ConfirmSpec {
	return ConfirmSpec{
		Title:       "Eliminar proyecto",
		Message:     fmt.Sprintf("¿Desea eliminar el proyecto %s? Esta acción no se puede deshacer.", rec.Cell("nombre")),
		ConfirmText: "Eliminar",
		CancelText:  "Cancelar",
	}
}

func (a *Proyectos) FormFields(rec *tabular.Record) []FormField {
	var p api.Proyecto
	if rec != nil {
		if raw, ok := rec.Raw.(api.Proyecto); ok {
			p = raw
		}
	}
	return []FormField{
		{Key: "nombre", Label: "Nombre", Value: p.Nombre, Required: true},
		{Key: "cliente_id", Label: "Cliente (ID)", Value: p.ClienteID, Required: true},
		{Key: "ubicacion", Label: "Ubicación", Value: p.Ubicacion},
		{Key: "estado", Label: "Estado", Value: p.Estado},
		{Key: "descripcion", Label: "Descripción", Value: p.Descripcion},
	}
}

func (a *Proyectos) Save(ctx context.Context, id string, values map[string]string) (string, error) {
	data := api.Proyecto{
		Nombre:      values["nombre"],
		ClienteID:   values["cliente_id"],
		Ubicacion:   values["ubicacion"],
		Estado:      values["estado"],
		Descripcion: values["descripcion"],
	}

	if id == "" {
		if _, err := a.svc.Create(ctx, data); err != nil {
			return "", err
		}
		return "Proyecto creado correctamente", nil
	}
	if _, err := a.svc.Update(ctx, id, data); err != nil {
		return "", err
	}
	return "Proyecto actualizado correctamente", nil
}

func proyectoRecords(proyectos []api.Proyecto) []tabular.Record {
	out := make([]tabular.Record, len(proyectos))
	for i, p := range proyectos {
		cliente := ""
		if p.Cliente != nil {
			cliente = p.Cliente.Nombre
		}

		cells := map[string]string{
			"id":          p.Codigo,
			"nombre":      p.Nombre,
			"cliente":     cliente,
			"ubicacion":   p.Ubicacion,
			"estado":      p.Estado,
			"presupuesto": esformat.Currency(p.Presupuesto),
		}
		if p.FechaInicio != nil {
			cells["fechaInicio"] = esformat.Date(*p.FechaInicio)
		}
		if p.FechaEntrega != nil {
			cells["fechaEntrega"] = esformat.Date(*p.FechaEntrega)
		}

		out[i] = tabular.Record{ID: p.ID, Cells: cells, Raw: p}
	}
	return out
}
