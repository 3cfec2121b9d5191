package repository

// Tables repositorios atados a una misma unidad de trabajo (todos ven los cambios preparados).
type Tables struct {
	Categories CategoryRepository
	Suppliers  SupplierRepository
	Products   ProductRepository
	Deliveries DeliveryRepository
	Users      UserRepository
	Rows       TableIO // acceso genérico por nombre de tabla
}
