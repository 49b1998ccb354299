// Package codes holds the fixed PLACSP code tables. These are versionless
// lookup maps published with the feed format, not derived from documents.
package codes

// ContractType maps cbc:TypeCode to its official description.
var ContractType = map[string]string{
	"1":  "Suministros",
	"2":  "Servicios",
	"3":  "Obras",
	"21": "Gestión de Servicios Públicos",
	"22": "Concesión de Servicios",
	"31": "Concesión de Obras Públicas",
	"32": "Concesión de Obras",
	"40": "Colaboración entre el sector público y sector privado",
	"7":  "Administrativo especial",
	"8":  "Privado",
	"50": "Patrimonial",
}

// BodyType maps cbc:ContractingPartyTypeCode to its official description.
var BodyType = map[string]string{
	"1":  "Autoridad estatal",
	"2":  "Autoridad regional",
	"3":  "Autoridad local",
	"4":  "Organismo de Derecho público",
	"5":  "Otras Entidades del Sector Público",
	"6":  "Organismo de Derecho público bajo el control de una autoridad estatal",
	"7":  "Organismo de Derecho público bajo el control de una autoridad regional",
	"8":  "Organismo de Derecho público bajo el control de una autoridad local",
	"9":  "Empresa pública bajo el control de una autoridad estatal",
	"10": "Empresa pública bajo el control de una autoridad regional",
	"11": "Empresa pública bajo el control de una autoridad local",
	"12": "Entidad con derechos especiales o exclusivos",
}

// BodyActivity maps cbc:ActivityCode to its official description.
var BodyActivity = map[string]string{
	"1":   "Justicia",
	"2":   "Defensa",
	"3":   "Seguridad Ciudadana e Instituciones Penitenciarias",
	"4":   "Política Exterior",
	"5":   "Pensiones",
	"6":   "Otras Prestaciones Económicas",
	"7":   "Servicios Sociales y Promoción Social",
	"8":   "Fomento del Empleo",
	"9":   "Desempleo",
	"10":  "Acceso a la Vivienda y Fomento de la Edificación",
	"11":  "Gestión y Administración de la Seguridad Social",
	"12":  "Sanidad",
	"13":  "Educación",
	"14":  "Cultura",
	"15":  "Agricultura, Pesca y Alimentación",
	"16":  "Industria y Energía",
	"17":  "Comercio, Turismo y Pymes",
	"18":  "Subvenciones al Transporte",
	"19":  "Infraestructuras",
	"20":  "Investigación, Desarrollo e Innovación",
	"21":  "Otras Actuaciones de Carácter Económico",
	"22":  "Servicios de Carácter General",
	"23":  "Administración Financiera y Tributaria",
	"24":  "Transferencias a otras Administraciones Públicas",
	"25":  "Deuda Pública",
	"26":  "Medio Ambiente",
	"27":  "Interior",
	"28":  "Economía y Hacienda",
	"29":  "Ocio",
	"101": "Actividades relacionadas con Aeropuerto",
	"102": "Electricidad",
	"103": "Exploración y extracción de carbón u otro combustible solido",
	"104": "Exploración y extracción de Gas",
	"105": "Actividades relacionadas con Puertos",
	"106": "Servicios Postales",
	"107": "Distribución de Gas",
	"108": "Servicios Ferroviarios",
	"109": "Servicios de tranvía, metro y autobus",
	"110": "Agua",
}

// Lookup returns the label for code in table, or nil for unrecognized codes.
// An unknown code is not an error: the raw code is still stored.
func Lookup(table map[string]string, code *string) *string {
	if code == nil {
		return nil
	}
	if name, ok := table[*code]; ok {
		return &name
	}
	return nil
}
