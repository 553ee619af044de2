package process

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// businessTypes are schema.org types whose "name" is the business name
var businessTypes = map[string]bool{
	"Organization": true, "LocalBusiness": true, "Corporation": true, "ProfessionalService": true,
	"Restaurant": true, "Store": true, "Bakery": true, "CafeOrCoffeeShop": true, "BarOrPub": true,
	"Dentist": true, "Physician": true, "MedicalClinic": true, "MedicalBusiness": true,
	"LegalService": true, "Attorney": true, "AccountingService": true, "RealEstateAgent": true,
	"HomeAndConstructionBusiness": true, "Plumber": true, "Electrician": true, "RoofingContractor": true,
	"HealthAndBeautyBusiness": true, "BeautySalon": true, "HairSalon": true, "DaySpa": true,
	"SportsActivityLocation": true, "ExerciseGym": true, "AutomotiveBusiness": true, "AutoRepair": true,
	"LodgingBusiness": true, "Hotel": true, "FoodEstablishment": true, "EducationalOrganization": true,
	"NGO": true, "FinancialService": true, "InsuranceAgency": true, "TravelAgency": true,
}

// siteName reads the declared site name: og:site_name, application-name, then JSON-LD
func siteName(doc *goquery.Document) string {
	for _, sel := range []string{`meta[property="og:site_name"]`, `meta[name="application-name"]`} {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			if v = utils.CleanText(v); v != "" {
				return v
			}
		}
	}

	var name string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &payload); err != nil {
			return true
		}
		name = jsonLDBusinessName(payload)
		return name == ""
	})
	return name
}

// jsonLDBusinessName walks objects, arrays and @graph lists for the first business-typed name
func jsonLDBusinessName(v any) string {
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			if n := jsonLDBusinessName(item); n != "" {
				return n
			}
		}
	case map[string]any:
		if graph, ok := node["@graph"]; ok {
			if n := jsonLDBusinessName(graph); n != "" {
				return n
			}
		}
		if isBusinessType(node["@type"]) {
			if n, ok := node["name"].(string); ok {
				return utils.CleanText(n)
			}
		}
	}
	return ""
}

func isBusinessType(t any) bool {
	switch typ := t.(type) {
	case string:
		return businessTypes[strings.TrimPrefix(typ, "schema:")]
	case []any:
		for _, item := range typ {
			if isBusinessType(item) {
				return true
			}
		}
	}
	return false
}
