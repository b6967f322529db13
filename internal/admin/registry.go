package admin

import (
	"fmt"
	"strings"

	"github.com/kinetta/takeoffctl/internal/api"
)

// EntityNames lists the entities the console manages, in menu order.
var EntityNames = []string{"clientes", "proyectos", "cubicaciones", "productos"}

// ForName builds the adapter for an entity name. Adapters share the
// client's refresh bus, so a product mutation in one list can wake the
// take-off list it belongs to.
func ForName(name string, client *api.Client) (Adapter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "clientes":
		return NewClientes(client.Clientes()), nil
	case "proyectos":
		return NewProyectos(client.Proyectos()), nil
	case "cubicaciones":
		return NewCubicaciones(client.Cubicaciones(), client.Productos(), client.RefreshBus()), nil
	case "productos":
		return NewProductos(client.Productos(), client.RefreshBus()), nil
	}
	return nil, fmt.Errorf("entidad desconocida %q, debe ser una de %v", name, EntityNames)
}
