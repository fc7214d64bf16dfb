package dataset

// Canonical column lists. Raw files from different years carry different
// header spellings but keep the same column order, so reconciliation maps
// them onto these lists by position.

var occurrenceColumns = []string{
	"id",
	"dataInversa",
	"diaSemana",
	"horario",
	"uf",
	"br",
	"km",
	"municipio",
	"causaAcidente",
	"tipoAcidente",
	"classificacaoAcidente",
	"faseDia",
	"sentidoVia",
	"condicaoMeteorologica",
	"tipoPista",
	"tracadoVia",
	"usoSolo",
	"pessoas",
	"mortos",
	"feridosLeves",
	"feridosGraves",
	"ilesos",
	"ignorados",
	"feridos",
	"veiculos",
	"latitude",
	"longitude",
	"regional",
	"delegacia",
	"uop",
}

var causeColumns = []string{
	"id",
	"pesid",
	"dataInversa",
	"diaSemana",
	"horario",
	"uf",
	"br",
	"km",
	"municipio",
	"causaPrincipal",
	"causaAcidente",
	"ordemTipoAcidente",
	"tipoAcidente",
	"classificacaoAcidente",
	"faseDia",
	"sentidoVia",
	"condicaoMeteorologica",
	"tipoPista",
	"tracadoVia",
	"usoSolo",
	"idVeiculo",
	"tipoVeiculo",
	"marca",
	"anoFabricacaoVeiculo",
	"tipoEnvolvido",
	"estadoFisico",
	"idade",
	"sexo",
	"ilesos",
	"feridosLeves",
	"feridosGraves",
	"mortos",
	"latitude",
	"longitude",
	"regional",
	"delegacia",
	"uop",
}

var peopleColumns = []string{
	"id",
	"pesid",
	"dataInversa",
	"diaSemana",
	"horario",
	"uf",
	"br",
	"km",
	"municipio",
	"causaAcidente",
	"tipoAcidente",
	"classificacaoAcidente",
	"faseDia",
	"sentidoVia",
	"condicaoMeteorologica",
	"tipoPista",
	"tracadoVia",
	"usoSolo",
	"idVeiculo",
	"tipoVeiculo",
	"marca",
	"anoFabricacaoVeiculo",
	"tipoEnvolvido",
	"estadoFisico",
	"idade",
	"sexo",
	"ilesos",
	"feridosLeves",
	"feridosGraves",
	"mortos",
	"latitude",
	"longitude",
	"regional",
	"delegacia",
	"uop",
}
