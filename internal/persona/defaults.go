package persona

// DefaultName is the persona returned when nothing matches.
const DefaultName = "service"

// Defaults returns the built-in persona set covering the job categories the
// résumé variants exist for. Keywords are Swedish with some English terms
// since most ingested listings come from Swedish boards.
func Defaults() []Persona {
	return []Persona{
		{
			Name:     "customer-service",
			Keywords: []string{"kundtjänst", "kundservice", "customer service", "support", "helpdesk", "kundsupport"},
			Summary:  "Flera år av kundservice via telefon, chatt och mail. Van vid högt ärendetryck och att hålla tonen vänlig även när det är stressigt.",
		},
		{
			Name:     "retail",
			Keywords: []string{"butik", "kassa", "säljare", "butikssäljare", "butiksmedarbetare", "ica", "coop", "willys", "lidl"},
			Summary:  "Kassavana från ICA Maxi och direktförsäljning i egen butik. Snabb, noggrann och trivs när det är mycket folk.",
		},
		{
			Name:     "restaurant",
			Keywords: []string{"servitör", "servitris", "restaurang", "café", "kafé", "barista", "kock", "köksbiträde", "servering", "bar"},
			Summary:  "Restaurang- och caféerfarenhet från Max Hamburgare och House of Beans, inklusive att driva en butik ensam hela dagar.",
		},
		{
			Name:     "industry",
			Keywords: []string{"industri", "lager", "produktion", "operatör", "montör", "trädgård", "städ", "lokalvård", "fabrik", "bygg"},
			Summary:  "Tungt fysiskt arbete som anodiseringsoperatör i tvåskift samt trädgårdsarbete. Gör jobbet ordentligt utan gnäll.",
		},
		{
			Name:     "healthcare",
			Keywords: []string{"vård", "omsorg", "äldreboende", "hemtjänst", "undersköterska", "vårdbiträde", "demens"},
			Summary:  "Timvikarie på äldreboende med medicinhantering, demensomsorg och stort ansvar för andras välmående.",
		},
		{
			Name:     "tech",
			Keywords: []string{"moderator", "content review", "trust & safety", "moderation", "it", "data", "digital", "analyst"},
			Summary:  "Innehållsmoderering för stora plattformar. Extremt fokus och snabba, korrekta beslut under press.",
		},
		{
			Name:     "reception",
			Keywords: []string{"reception", "receptionist", "administration", "kontor", "telefon"},
			Summary:  "Receptionsarbete med bokningar, betalningar och telefon. Ansiktet utåt som får gäster att känna sig välkomna.",
		},
		{
			Name:     DefaultName,
			Keywords: []string{"service"},
			Summary:  "Bred erfarenhet från service i flera branscher. Flexibel med arbetstider och tillgänglig omgående.",
		},
	}
}
