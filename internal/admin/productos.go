package admin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kinetta/takeoffctl/internal/api"
	"github.com/kinetta/takeoffctl/internal/tabular"
	"github.com/kinetta/takeoffctl/internal/tabular/esformat"
)

// Productos adapts the take-off line item entity. Product mutations change
// the parent take-off's totals, so they ring the refresh bus.
type Productos struct {
	svc *api.ProductoService
	bus *api.RefreshBus

	// When set, the adapter lists only the products of one take-off.
	cubicacionID     string
	cubicacionCodigo string
}

// NewProductos builds the product list adapter.
func NewProductos(svc *api.ProductoService, bus *api.RefreshBus) *Productos {
	return &Productos{svc: svc, bus: bus}
}

// ForCubicacion returns a copy of the adapter scoped to one take-off. The
// code shows up in the list heading; new products are prefilled with the
// take-off id.
func (a *Productos) ForCubicacion(id, codigo string) *Productos {
	scoped := *a
	scoped.cubicacionID = id
	scoped.cubicacionCodigo = codigo
	return &scoped
}

func (a *Productos) Name() string { return "productos" }

func (a *Productos) Title() string {
	if a.cubicacionCodigo != "" {
		return "Productos · " + a.cubicacionCodigo
	}
	if a.cubicacionID != "" {
		return "Productos · " + a.cubicacionID
	}
	return "Productos"
}

func (a *Productos) Columns() []tabular.Column {
	return []tabular.Column{
		{Key: "id", Label: "Código", Type: tabular.ColumnText, Sortable: true, Visible: true},
		{Key: "nombre", Label: "Nombre", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "cubicacion", Label: "Cubicación", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "tipo", Label: "Tipo", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "material", Label: "Material", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: false},
		{Key: "cantidad", Label: "Cantidad", Type: tabular.ColumnNumber, Sortable: true, Draggable: true, Visible: true},
		{Key: "precioUnitario", Label: "Precio Unitario", Type: tabular.ColumnNumber, Sortable: true, Draggable: true, Visible: true},
		{Key: "precioTotal", Label: "Precio Total", Type: tabular.ColumnNumber, Sortable: true, Draggable: true, Visible: true},
		{Key: "actions", Label: "Acciones", Type: tabular.ColumnActions, Visible: true},
	}
}

func (a *Productos) Fetch(ctx context.Context, forceRefresh bool) ([]tabular.Record, error) {
	if a.cubicacionID != "" {
		productos, err := a.svc.GetByCubicacion(ctx, a.cubicacionID)
		if err != nil {
			return nil, err
		}
		return productoRecords(productos), nil
	}
	productos, err := a.svc.GetAll(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	return productoRecords(productos), nil
}

func (a *Productos) Search(ctx context.Context, term string) ([]tabular.Record, error) {
	productos, err := a.svc.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	if a.cubicacionID != "" {
		scoped := productos[:0:0]
		for _, p := range productos {
			if p.CubicacionID == a.cubicacionID {
				scoped = append(scoped, p)
			}
		}
		productos = scoped
	}
	return productoRecords(productos), nil
}

func (a *Productos) Delete(ctx context.Context, id string) error {
	if err := a.svc.Delete(ctx, id); err != nil {
		return err
	}
	a.bus.Notify()
	return nil
}

func (a *Productos) DeleteConfirm(rec tabular.Record) ConfirmSpec {
	return ConfirmSpec{
		Title:       "Eliminar producto",
		Message:     fmt.Sprintf("¿Desea eliminar el producto %s?", rec.Cell("nombre")),
		ConfirmText: "Eliminar",
		CancelText:  "Cancelar",
	}
}

func (a *Productos) FormFields(rec *tabular.Record) []FormField {
	var p api.Producto
	if rec != nil {
		if raw, ok := rec.Raw.(api.Producto); ok {
			p = raw
		}
	}

	cantidad := ""
	if p.Cantidad != 0 {
		cantidad = strconv.FormatFloat(p.Cantidad, 'f', -1, 64)
	}
	precio := ""
	if p.PrecioUnitario != 0 {
		precio = strconv.FormatInt(p.PrecioUnitario, 10)
	}
	cubicacionID := p.CubicacionID
	if cubicacionID == "" {
		cubicacionID = a.cubicacionID
	}

	return []FormField{
		{Key: "nombre", Label: "Nombre", Value: p.Nombre, Required: true},
		{Key: "cubicacion_id", Label: "Cubicación (ID)", Value: cubicacionID, Required: true},
		{Key: "tipo_producto", Label: "Tipo", Value: p.TipoProducto},
		{Key: "material", Label: "Material", Value: p.Material},
		{Key: "cantidad", Label: "Cantidad", Value: cantidad},
		{Key: "precio_unitario", Label: "Precio Unitario", Value: precio},
	}
}

func (a *Productos) Save(ctx context.Context, id string, values map[string]string) (string, error) {
	cantidad, _ := esformat.ParseNumber(values["cantidad"])
	precio, _ := esformat.ParseNumber(values["precio_unitario"])

	data := api.Producto{
		Nombre:         values["nombre"],
		CubicacionID:   values["cubicacion_id"],
		TipoProducto:   values["tipo_producto"],
		Material:       values["material"],
		Cantidad:       cantidad,
		PrecioUnitario: int64(precio),
	}

	if id == "" {
		if _, err := a.svc.Create(ctx, data); err != nil {
			return "", err
		}
		a.bus.Notify()
		return "Producto creado correctamente", nil
	}
	if _, err := a.svc.Update(ctx, id, data); err != nil {
		return "", err
	}
	a.bus.Notify()
	return "Producto actualizado correctamente", nil
}

func productoRecords(productos []api.Producto) []tabular.Record {
	out := make([]tabular.Record, len(productos))
	for i, p := range productos {
		cubicacion := ""
		if p.Cubicacion != nil {
			cubicacion = p.Cubicacion.Codigo
		}

		out[i] = tabular.Record{
			ID: p.ID,
			Cells: map[string]string{
				"id":             p.Codigo,
				"nombre":         p.Nombre,
				"cubicacion":     cubicacion,
				"tipo":           p.TipoProducto,
				"material":       p.Material,
				"cantidad":       strconv.FormatFloat(p.Cantidad, 'f', -1, 64),
				"precioUnitario": esformat.Currency(p.PrecioUnitario),
				"precioTotal":    esformat.Currency(p.PrecioTotal),
			},
			Raw: p,
		}
	}
	return out
}
