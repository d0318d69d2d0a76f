package domain

// ChartAccount is a template row of the standard chart of accounts.
type ChartAccount struct {
	Code string
	Name string
}

// DefaultChartOfAccounts is the standard Venezuelan chart seeded into new companies on request.
// Types derive from the first segment; only leaves accept entries.
var DefaultChartOfAccounts = []ChartAccount{
	{"1", "ACTIVO"},
	{"1.1", "ACTIVO CORRIENTE"},
	{"1.1.01", "EFECTIVO Y EQUIVALENTES"},
	{"1.1.01.001", "Caja"},
	{"1.1.01.002", "Banco Cuenta Corriente"},
	{"1.1.01.003", "Banco Cuenta Ahorros"},
	{"1.1.02", "CUENTAS POR COBRAR"},
	{"1.1.02.001", "Clientes"},
	{"1.1.02.002", "Cuentas por Cobrar Empleados"},
	{"1.1.02.003", "Anticipo a Proveedores"},
	{"1.1.02.004", "IVA Crédito Fiscal"},
	{"1.1.03", "INVENTARIOS"},
	{"1.1.03.001", "Inventario de Mercancías"},
	{"1.1.03.002", "Inventario de Materiales"},
	{"1.2", "ACTIVO NO CORRIENTE"},
	{"1.2.01", "PROPIEDADES, PLANTA Y EQUIPO"},
	{"1.2.01.001", "Edificios"},
	{"1.2.01.002", "Mobiliario y Equipo de Oficina"},
	{"1.2.01.003", "Equipos de Computación"},
	{"1.2.01.004", "Vehículos"},
	{"2", "PASIVO"},
	{"2.1", "PASIVO CORRIENTE"},
	{"2.1.01", "CUENTAS POR PAGAR"},
	{"2.1.01.001", "Proveedores"},
	{"2.1.01.002", "Acreedores"},
	{"2.1.01.003", "IVA Débito Fiscal"},
	{"2.1.02", "RETENCIONES POR PAGAR"},
	{"2.1.02.001", "Retención IVA por Pagar"},
	{"2.1.02.002", "Retención ISLR por Pagar"},
	{"2.1.02.003", "Retención Municipal por Pagar"},
	{"2.1.03", "OBLIGACIONES LABORALES"},
	{"2.1.03.001", "Sueldos por Pagar"},
	{"2.1.03.002", "Prestaciones Sociales por Pagar"},
	{"2.1.03.003", "Vacaciones por Pagar"},
	{"2.2", "PASIVO NO CORRIENTE"},
	{"2.2.01", "PRÉSTAMOS A LARGO PLAZO"},
	{"2.2.01.001", "Préstamos Bancarios"},
	{"3", "PATRIMONIO"},
	{"3.1", "CAPITAL"},
	{"3.1.01", "CAPITAL SOCIAL"},
	{"3.1.01.001", "Capital Suscrito y Pagado"},
	{"3.2", "RESULTADOS"},
	{"3.2.01", "RESULTADOS ACUMULADOS"},
	{"3.2.01.001", "Resultados Acumulados"},
	{"3.2.01.002", "Resultado del Ejercicio"},
	{"4", "INGRESOS"},
	{"4.1", "INGRESOS OPERACIONALES"},
	{"4.1.01", "VENTAS"},
	{"4.1.01.001", "Ventas de Mercancías"},
	{"4.1.01.002", "Ventas de Servicios"},
	{"4.2", "OTROS INGRESOS"},
	{"4.2.01", "INGRESOS FINANCIEROS"},
	{"4.2.01.001", "Ingresos por Intereses"},
	{"4.2.01.002", "Diferencia en Cambio Positiva"},
	{"5", "GASTOS"},
	{"5.1", "COSTO DE VENTAS"},
	{"5.1.01", "COSTO DE MERCANCÍAS VENDIDAS"},
	{"5.1.01.001", "Costo de Mercancías Vendidas"},
	{"5.2", "GASTOS OPERACIONALES"},
	{"5.2.01", "GASTOS ADMINISTRATIVOS"},
	{"5.2.01.001", "Sueldos y Salarios"},
	{"5.2.01.002", "Prestaciones Sociales"},
	{"5.2.01.003", "Alquiler"},
	{"5.2.01.004", "Servicios Públicos"},
	{"5.2.01.005", "Telecomunicaciones"},
	{"5.2.01.006", "Papelería y Útiles de Oficina"},
	{"5.2.01.007", "Mantenimiento y Reparaciones"},
	{"5.2.02", "GASTOS DE VENTAS"},
	{"5.2.02.001", "Publicidad y Promoción"},
	{"5.2.02.002", "Comisiones de Ventas"},
	{"5.2.02.003", "Transporte y Fletes"},
	{"5.3", "GASTOS FINANCIEROS"},
	{"5.3.01", "GASTOS BANCARIOS"},
	{"5.3.01.001", "Intereses y Comisiones Bancarias"},
	{"5.3.01.002", "Diferencia en Cambio Negativa"},
	{"5.4", "OTROS GASTOS"},
	{"5.4.01", "GASTOS EXTRAORDINARIOS"},
	{"5.4.01.001", "Pérdidas Extraordinarias"},
	{"5.4.01.002", "Impuesto Sobre la Renta"},
}

// DefaultCostCenters are seeded together with the default chart.
var DefaultCostCenters = []ChartAccount{
	{"ADM", "Administración General"},
	{"VEN", "Departamento de Ventas"},
	{"PRO", "Producción"},
	{"COM", "Compras"},
	{"FIN", "Finanzas"},
	{"RRH", "Recursos Humanos"},
	{"TEC", "Tecnología"},
}
