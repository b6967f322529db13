package admin

import (
	"context"
	"fmt"

	"github.com/kinetta/takeoffctl/internal/api"
	"github.com/kinetta/takeoffctl/internal/tabular"
	"github.com/kinetta/takeoffctl/internal/tabular/esformat"
)

// Cubicaciones adapts the take-off entity. It is the one list whose data
// changes from outside the view (Excel imports), so it exposes the refresh
// bus to subscribers.
type Cubicaciones struct {
	svc       *api.CubicacionService
	productos *api.ProductoService
	bus       *api.RefreshBus
}

// NewCubicaciones builds the take-off list adapter. The product service
// backs the per-take-off drill-down list.
func NewCubicaciones(svc *api.CubicacionService, productos *api.ProductoService, bus *api.RefreshBus) *Cubicaciones {
	return &Cubicaciones{svc: svc, productos: productos, bus: bus}
}

func (a *Cubicaciones) Name() string  { return "cubicaciones" }
func (a *Cubicaciones) Title() string { return "Cubicaciones" }

// Subscribe implements Refresher.
func (a *Cubicaciones) Subscribe() (<-chan struct{}, func()) {
	return a.bus.Subscribe()
}

// Related implements RelatedLister: a take-off opens the list of its own
// products.
func (a *Cubicaciones) Related(rec tabular.Record) (Adapter, bool) {
	if a.productos == nil || rec.ID == "" {
		return nil, false
	}
	return NewProductos(a.productos, a.bus).ForCubicacion(rec.ID, rec.Cell("id")), true
}

func (a *Cubicaciones) Columns() []tabular.Column {
	return []tabular.Column{
		{Key: "id", Label: "Código", Type: tabular.ColumnText, Sortable: true, Visible: true},
		{Key: "nombre", Label: "Nombre", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "proyecto", Label: "Proyecto", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "descripcion", Label: "Descripción", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "fecha", Label: "Fecha", Type: tabular.ColumnDate, Sortable: true, Draggable: true, Visible: true},
		{Key: "estado", Label: "Estado", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "monto", Label: "Monto", Type: tabular.ColumnNumber, Sortable: true, Draggable: true, Visible: true},
		{Key: "actions", Label: "Acciones", Type: tabular.ColumnActions, Visible: true},
	}
}

func (a *Cubicaciones) Fetch(ctx context.Context, forceRefresh bool) ([]tabular.Record, error) {
	cubicaciones, err := a.svc.GetAll(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	return cubicacionRecords(cubicaciones), nil
}

func (a *Cubicaciones) Search(ctx context.Context, term string) ([]tabular.Record, error) {
	cubicaciones, err := a.svc.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return cubicacionRecords(cubicaciones), nil
}

func (a *Cubicaciones) Delete(ctx context.Context, id string) error {
	return a.svc.Delete(ctx, id)
}

func (a *Cubicaciones) DeleteConfirm(rec tabular.Record) ConfirmSpec {
	return ConfirmSpec{
		Title:       "Eliminar cubicación",
		Message:     fmt.Sprintf("¿Desea eliminar la cubicación %s y todos sus productos?", rec.Cell("nombre")),
		ConfirmText: "Eliminar",
		CancelText:  "Cancelar",
	}
}

func (a *Cubicaciones) FormFields(rec *tabular.Record) []FormField {
	var c api.Cubicacion
	if rec != nil {
		if raw, ok := rec.Raw.(api.Cubicacion); ok {
			c = raw
		}
	}
	return []FormField{
		{Key: "nombre", Label: "Nombre", Value: c.Nombre, Required: true},
		{Key: "proyecto_id", Label: "Proyecto (ID)", Value: c.ProyectoID, Required: true},
		{Key: "descripcion", Label: "Descripción", Value: c.Descripcion},
		{Key: "estado", Label: "Estado", Value: c.Estado},
	}
}

func (a *Cubicaciones) Save(ctx context.Context, id string, values map[string]string) (string, error) {
	data := api.Cubicacion{
		Nombre:      values["nombre"],
		ProyectoID:  values["proyecto_id"],
		Descripcion: values["descripcion"],
		Estado:      values["estado"],
	}

	if id == "" {
		if _, err := a.svc.Create(ctx, data); err != nil {
			return "", err
		}
		return "Cubicación creada correctamente", nil
	}
	if _, err := a.svc.Update(ctx, id, data); err != nil {
		return "", err
	}
	return "Cubicación actualizada correctamente", nil
}

func cubicacionRecords(cubicaciones []api.Cubicacion) []tabular.Record {
	out := make([]tabular.Record, len(cubicaciones))
	for i, c := range cubicaciones {
		proyecto := ""
		if c.Proyecto != nil {
			proyecto = c.Proyecto.Nombre
		}

		cells := map[string]string{
			"id":          c.Codigo,
			"nombre":      c.Nombre,
			"proyecto":    proyecto,
			"descripcion": c.Descripcion,
			"estado":      c.Estado,
			"monto":       esformat.Currency(c.MontoTotal),
		}
		if c.FechaCubicacion != nil {
			cells["fecha"] = esformat.Date(*c.FechaCubicacion)
		}

		out[i] = tabular.Record{ID: c.ID, Cells: cells, Raw: c}
	}
	return out
}
