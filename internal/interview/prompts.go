package interview

import (
	"strings"

	"github.com/soyeahso/adaudit/internal/benchmark"
)

// Fixed replies.
const (
	MsgWelcome          = "Sou o *Seu Agente de Tráfego*. Vamos auditar sua campanha.\n\nObjetivo desta campanha? (Aquecimento ou Vendas)"
	MsgAccessRestricted = "Acesso restrito. Peça ao administrador para liberar seu ID."

	msgObjectiveRetry = "Responda: Aquecimento ou Vendas."
	msgProfileRetry   = "Escolha 1,2,3,4 ou digite o nome do perfil."
)

var msgProfiles = "Escolha o tipo que mais parece com o seu negócio:\n\n" +
	"1) " + benchmark.B2CMass + " – vende para muitas pessoas diferentes.\nExemplo: roupas, comida, maquiagem.\n\n" +
	"2) " + benchmark.B2BHighTicket + " – vende para empresas, preço alto.\nExemplo: software caro, consultoria para fábricas.\n\n" +
	"3) " + benchmark.LocalService + " – atende só na sua cidade ou região.\nExemplo: salão, clínica, encanador.\n\n" +
	"4) " + benchmark.NicheInfoOffer + " – ensina algo específico para um grupo pequeno.\nExemplo: curso para fotógrafos iniciantes."

var msgPlatform = "Escolha a plataforma: " + strings.Join(benchmark.Platforms, " | ")

const (
	msgAudience    = "Descreva seu *público-alvo* em 1 frase:"
	msgMicroniche  = "Descreva seu *micro-nicho* em 1 frase:"
	msgBudget      = "Qual é o *orçamento diário*? (ex.: 50 ou €50)"
	msgReach       = "Quantas *pessoas únicas* foram alcançadas?"
	msgImpressions = "Quantas *impressões*?"
	msgViews       = "Quantas *visualizações de vídeo* (ou interações)?"
	msgCost        = "Qual foi o *custo total*? (ex.: 12 ou €12)"
	msgSalesCost   = "Qual foi o *custo total*?"
	msgRetention   = "Qual a *retenção média do vídeo*? (em %)"
	msgClicks      = "Quantos *cliques*?"
	msgVisits      = "Quantas *visitas na LP*?"
	msgLeads       = "Quantos *leads*?"
	msgSales       = "Quantas *vendas*?"
	msgRevenue     = "Qual a *receita total*?"
)
