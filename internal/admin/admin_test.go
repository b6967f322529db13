package admin

import (
	"testing"
	"time"

	"github.com/kinetta/takeoffctl/internal/api"
	"github.com/kinetta/takeoffctl/internal/tabular"
	"github.com/stretchr/testify/require"
)

func TestAdapterColumnsHaveFixedEnds(t *testing.T) {
	adapters := []Adapter{
		NewClientes(nil),
		NewProyectos(nil),
		NewCubicaciones(nil, nil, nil),
		NewProductos(nil, nil),
	}

	for _, a := range adapters {
		cols := a.Columns()
		require.NotEmpty(t, cols, a.Name())

		first, last := cols[0], cols[len(cols)-1]
		require.Equal(t, "id", first.Key, a.Name())
		require.False(t, first.Draggable, a.Name())
		require.Equal(t, "actions", last.Key, a.Name())
		require.Equal(t, tabular.ColumnActions, last.Type, a.Name())
		require.False(t, last.Draggable, a.Name())
	}
}

func TestClienteRecords(t *testing.T) {
	records := clienteRecords([]api.Cliente{{
		ID:            "uuid-1",
		Codigo:        "CLI-001",
		NombreEmpresa: "Constructora Acme",
		RUT:           "76.123.456-7",
		EmailContacto: "ventas@acme.cl",
		Estado:        "activo",
	}})

	require.Len(t, records, 1)
	r := records[0]
	require.Equal(t, "uuid-1", r.ID)
	require.Equal(t, "CLI-001", r.Cell("id"))
	require.Equal(t, "Constructora Acme", r.Cell("nombre"))
	require.Equal(t, "76.123.456-7", r.Cell("rut"))

	raw, ok := r.Raw.(api.Cliente)
	require.True(t, ok)
	require.Equal(t, "uuid-1", raw.ID)
}

func TestProyectoRecordsResolveClienteAndDates(t *testing.T) {
	inicio := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	p := api.Proyecto{
		ID:          "uuid-2",
		Codigo:      "PRY-007",
		Nombre:      "Edificio Norte",
		FechaInicio: &inicio,
		Presupuesto: 1200000,
	}
	p.Cliente = &struct {
		ID     string `json:"id"`
		Nombre string `json:"nombre"`
	}{ID: "uuid-1", Nombre: "Constructora Acme"}

	records := proyectoRecords([]api.Proyecto{p})
	require.Len(t, records, 1)
	r := records[0]
	require.Equal(t, "Constructora Acme", r.Cell("cliente"))
	require.Equal(t, "01/04/2026", r.Cell("fechaInicio"))
	require.Equal(t, "$1.200.000", r.Cell("presupuesto"))
	require.Empty(t, r.Cell("fechaEntrega"))
}

func TestCubicacionRecords(t *testing.T) {
	fecha := time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC)
	c := api.Cubicacion{
		ID:              "uuid-3",
		Codigo:          "CUB-012",
		Nombre:          "Torre A",
		FechaCubicacion: &fecha,
		MontoTotal:      4500000,
		Estado:          "borrador",
	}
	c.Proyecto = &struct {
		Nombre string `json:"nombre"`
	}{Nombre: "Edificio Norte"}

	records := cubicacionRecords([]api.Cubicacion{c})
	require.Len(t, records, 1)
	r := records[0]
	require.Equal(t, "Edificio Norte", r.Cell("proyecto"))
	require.Equal(t, "20/05/2026", r.Cell("fecha"))
	require.Equal(t, "$4.500.000", r.Cell("monto"))
}

func TestProductoRecords(t *testing.T) {
	p := api.Producto{
		ID:             "uuid-4",
		Codigo:         "PRD-100",
		Nombre:         "Ventana corredera",
		Cantidad:       12.5,
		PrecioUnitario: 85000,
		PrecioTotal:    1062500,
	}
	p.Cubicacion = &struct {
		Codigo string `json:"codigo"`
	}{Codigo: "CUB-012"}

	records := productoRecords([]api.Producto{p})
	require.Len(t, records, 1)
	r := records[0]
	require.Equal(t, "CUB-012", r.Cell("cubicacion"))
	require.Equal(t, "12.5", r.Cell("cantidad"))
	require.Equal(t, "$85.000", r.Cell("precioUnitario"))
}

func TestClienteFormFieldsPrefill(t *testing.T) {
	a := NewClientes(nil)

	blank := a.FormFields(nil)
	require.Equal(t, "nombre_empresa", blank[0].Key)
	require.True(t, blank[0].Required)
	require.Empty(t, blank[0].Value)

	rec := clienteRecords([]api.Cliente{{ID: "uuid-1", NombreEmpresa: "Acme", RUT: "76.123.456-7"}})[0]
	filled := a.FormFields(&rec)
	require.Equal(t, "Acme", filled[0].Value)
	require.Equal(t, "76.123.456-7", filled[1].Value)
}

func TestCubicacionRelatedOpensScopedProductos(t *testing.T) {
	client := api.NewClient("http://example", "", nil)
	adapter, err := ForName("cubicaciones", client)
	require.NoError(t, err)

	lister, ok := adapter.(RelatedLister)
	require.True(t, ok)

	rec := tabular.Record{ID: "uuid-3", Cells: map[string]string{"id": "CUB-012"}}
	child, ok := lister.Related(rec)
	require.True(t, ok)
	require.Equal(t, "productos", child.Name())
	require.Equal(t, "Productos · CUB-012", child.Title())

	_, ok = lister.Related(tabular.Record{})
	require.False(t, ok)
}

func TestScopedProductosPrefillsCubicacion(t *testing.T) {
	client := api.NewClient("http://example", "", nil)
	scoped := NewProductos(client.Productos(), client.RefreshBus()).ForCubicacion("uuid-3", "CUB-012")

	fields := scoped.FormFields(nil)
	require.Equal(t, "cubicacion_id", fields[1].Key)
	require.Equal(t, "uuid-3", fields[1].Value)

	// Editing keeps the record's own parent over the scope.
	rec := productoRecords([]api.Producto{{ID: "uuid-4", CubicacionID: "uuid-9"}})[0]
	fields = scoped.FormFields(&rec)
	require.Equal(t, "uuid-9", fields[1].Value)
}

func TestDeleteConfirmTexts(t *testing.T) {
	rec := tabular.Record{ID: "x", Cells: map[string]string{"nombre": "Acme"}}

	spec := NewClientes(nil).DeleteConfirm(rec)
	require.Equal(t, "Desactivar cliente", spec.Title)
	require.Contains(t, spec.Message, "Acme")
	require.Equal(t, "Desactivar", spec.ConfirmText)
	require.Equal(t, "Cancelar", spec.CancelText)
}
