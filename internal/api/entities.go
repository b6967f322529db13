package api

import "time"

// Entity field names mirror the backend schema, which is Spanish
// throughout.

// Cliente is a customer of the company.
type Cliente struct {
	ID               string     `json:"id"`
	Codigo           string     `json:"codigo"`
	NombreEmpresa    string     `json:"nombre_empresa"`
	RUT              string     `json:"rut,omitempty"`
	TipoCliente      string     `json:"tipo_cliente,omitempty"`
	EmailContacto    string     `json:"email_contacto,omitempty"`
	TelefonoContacto string     `json:"telefono_contacto,omitempty"`
	NombreContacto   string     `json:"nombre_contacto,omitempty"`
	Direccion        string     `json:"direccion,omitempty"`
	Ciudad           string     `json:"ciudad,omitempty"`
	Region           string     `json:"region,omitempty"`
	Estado           string     `json:"estado,omitempty"`
	Observaciones    string     `json:"observaciones,omitempty"`
	FechaCreacion    *time.Time `json:"fecha_creacion,omitempty"`
}

// Proyecto is a construction project belonging to a client.
type Proyecto struct {
	ID            string     `json:"id"`
	Codigo        string     `json:"codigo"`
	Nombre        string     `json:"nombre"`
	ClienteID     string     `json:"cliente_id"`
	Descripcion   string     `json:"descripcion,omitempty"`
	Ubicacion     string     `json:"ubicacion,omitempty"`
	Ciudad        string     `json:"ciudad,omitempty"`
	Region        string     `json:"region,omitempty"`
	TipoMercado   string     `json:"tipo_mercado,omitempty"`
	FechaInicio   *time.Time `json:"fecha_inicio,omitempty"`
	FechaEntrega  *time.Time `json:"fecha_entrega,omitempty"`
	Estado        string     `json:"estado,omitempty"`
	Presupuesto   int64      `json:"presupuesto,omitempty"`
	FechaCreacion *time.Time `json:"fecha_creacion,omitempty"`

	// Cliente carries the related client name when the backend expands it.
	Cliente *struct {
		ID     string `json:"id"`
		Nombre string `json:"nombre"`
	} `json:"Cliente,omitempty"`
}

// Cubicacion is a material take-off for a project.
type Cubicacion struct {
	ID              string     `json:"id"`
	Codigo          string     `json:"codigo"`
	Nombre          string     `json:"nombre"`
	ProyectoID      string     `json:"proyecto_id"`
	Descripcion     string     `json:"descripcion,omitempty"`
	FechaCubicacion *time.Time `json:"fecha_cubicacion,omitempty"`
	Estado          string     `json:"estado,omitempty"`
	Tipo            string     `json:"tipo,omitempty"`
	MontoTotal      int64      `json:"monto_total,omitempty"`
	CantidadItems   int        `json:"cantidad_items,omitempty"`
	Observaciones   string     `json:"observaciones,omitempty"`
	FechaCreacion   *time.Time `json:"fecha_creacion,omitempty"`

	Proyecto *struct {
		Nombre string `json:"nombre"`
	} `json:"Proyecto,omitempty"`
}

// Producto is one line item of a take-off.
type Producto struct {
	ID             string     `json:"id"`
	CubicacionID   string     `json:"cubicacion_id"`
	Codigo         string     `json:"codigo"`
	Nombre         string     `json:"nombre"`
	TipoProducto   string     `json:"tipo_producto,omitempty"`
	Categoria      string     `json:"categoria,omitempty"`
	Ubicacion      string     `json:"ubicacion,omitempty"`
	Cantidad       float64    `json:"cantidad"`
	Material       string     `json:"material,omitempty"`
	TipoVidrio     string     `json:"tipo_vidrio,omitempty"`
	PrecioUnitario int64      `json:"precio_unitario,omitempty"`
	PrecioTotal    int64      `json:"precio_total,omitempty"`
	Activo         bool       `json:"activo,omitempty"`
	Imagen         string     `json:"imagen,omitempty"`
	FechaCreacion  *time.Time `json:"fecha_creacion,omitempty"`

	Cubicacion *struct {
		Codigo string `json:"codigo"`
	} `json:"Cubicacion,omitempty"`
}
