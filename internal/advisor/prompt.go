package advisor

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/tair/fabstock/internal/domain"
)

func extractionPrompt(text string) string {
	labels := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		labels = append(labels, fmt.Sprintf("%s (%s)", c, c.Label()))
	}
	return fmt.Sprintf(`Analyse le texte suivant décrivant un objet de FabLab et extrais les informations structurées.
Le texte est: %q.
Déduis la catégorie la plus appropriée parmi: %s.
Suggère une quantité minimale de stock logique.
Suggère un emplacement de stockage typique dans un FabLab.`, text, strings.Join(labels, ", "))
}

func advicePrompt(question string, items []domain.InventoryItem) string {
	var inv strings.Builder
	for _, item := range items {
		fmt.Fprintf(&inv, "- %s (%d en stock, Loc: %s)\n", item.Name, item.Quantity, item.Location)
	}
	return fmt.Sprintf(`Tu es un assistant expert pour un gestionnaire de FabLab.
Voici l'inventaire actuel du FabLab :
%s
Réponds à la question suivante de manière utile, concise et professionnelle en français. Si la question concerne la faisabilité d'un projet, vérifie si nous avons les matériaux. Si elle concerne l'organisation, donne des conseils d'expert.

Question utilisateur: %q`, inv.String(), question)
}

func suggestionSchema() *genai.Schema {
	categories := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		categories = append(categories, string(c))
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":                 {Type: genai.TypeString, Description: "Nom court et précis de l'objet"},
			"description":          {Type: genai.TypeString, Description: "Description technique"},
			"category":             {Type: genai.TypeString, Enum: categories},
			"suggestedQuantity":    {Type: genai.TypeNumber, Description: "Quantité détectée ou 1 par défaut"},
			"suggestedMinQuantity": {Type: genai.TypeNumber},
			"locationSuggestion":   {Type: genai.TypeString},
			"estimatedPrice":       {Type: genai.TypeNumber, Description: "Estimation du prix unitaire en euros"},
		},
		Required: []string{"name", "category", "suggestedQuantity"},
	}
}
