package primarybrief

// defaultSections is the page, top to bottom.
func defaultSections() []Section {
	return []Section{
		Narrative{Content: "intro", NoteBox: true},

		Heading{Level: 3, Text: "Overlay Results"},
		Document{Asset: MapOverlay, Title: "Overlay results map"},
		Narrative{Content: "overlay", NoteBox: true},
		Rule{},

		Heading{Level: 3, Text: "Diversity Heatmaps"},
		Row{
			Left: []Section{
				Heading{Level: 5, Text: "Personal Diversity Heatmap"},
				Document{Asset: MapPersonalDiversity, Title: "Personal diversity heatmap", Pair: true},
				Image{Asset: ImagePersonalDiversity, Alt: "Personal diversity example"},
				Narrative{Content: "personal-diversity", NoteBox: true},
			},
			Right: []Section{
				Heading{Level: 5, Text: "Shannon Index Heatmap"},
				Document{Asset: MapShannonIndex, Title: "Shannon index heatmap", Pair: true},
				Narrative{Content: "shannon-lead", NoteBox: true},
				Formula{TeX: `H' = -\sum_{i=1}^{S} p_i \ln(p_i)`},
				Narrative{Content: "shannon-notes", NoteBox: true},
			},
		},
		Row{
			Left:  []Section{Image{Asset: ImagePersonalVsZohran, Alt: "Personal diversity vs. proportion of the vote for Zohran Mamdani"}},
			Right: []Section{Image{Asset: ImageShannonVsZohran, Alt: "Shannon index vs. proportion of the vote for Zohran Mamdani"}},
		},

		Heading{Level: 2, Text: "Five Models to Estimate the Effect of Diversity on Zohran Mamdani’s Primary Results by Election District", Centered: true},
		Narrative{Content: "models-intro", NoteBox: true},
		Narrative{Content: "variables", NoteBox: true},
		Narrative{Content: "specifications", NoteBox: true},

		TableSection{Table: TableLogitFull},
		TableSection{Table: TableLogitPartial},
		TableSection{Table: TableLogitBivariate},

		Narrative{Content: "logit-model"},
		Formula{TeX: `\beta_j = \frac{\partial}{\partial x_j} \log\!\left(\frac{\mu}{1 - \mu}\right)`},
		Formula{TeX: `\mu_i = \Pr(Y_i = 1 \mid X_i) = \frac{e^{X_i \beta}}{1 + e^{X_i \beta}}`},
		Narrative{Content: "logit-marginal"},
		Formula{TeX: `\frac{\partial \mu}{\partial \text{PDS}} = \beta \cdot \mu \cdot (1 - \mu) = 2.5687 \cdot 0.5 \cdot 0.5 = 0.642`},
		Narrative{Content: "logit-elasticity"},

		TableSection{Table: TableMultinomialUnweighted},

		Rule{},
		Heading{Level: 3, Text: "Interpretation of Multinomial Logit Results"},
		Narrative{Content: "multinomial-utility"},
		Formula{TeX: `U_{ij} = x_i^\top \beta_j + \varepsilon_{ij}`},
		Narrative{Content: "multinomial-choice"},
		Formula{TeX: `P(Y_i = j \mid x_i) = p_{ij} = \frac{\exp(x_i^\top \beta_j)}{\sum_{m=1}^J \exp(x_i^\top \beta_m)}`},
		Narrative{Markdown: `We normalize $\beta_J = 0$, and thus estimate`},
		Formula{TeX: `p_{ij} = \frac{\exp(x_i^\top \beta_j)}{1 + \sum_{m=1}^{J-1} \exp(x_i^\top \beta_m)}, \quad j = 1, \dots, J-1.`},
		Narrative{Markdown: "Finally, we have, in log-odds form,"},
		Formula{TeX: `\ln \!\left( \frac{P(Y_i = j)}{P(Y_i = J)} \right) = x_i^\top \beta_j.`},
		Narrative{Content: "multinomial-coefficient"},
		Formula{TeX: `e^{7.7 \times 0.01} \approx 1.08`},
		Narrative{Markdown: "i.e. an 8% increase in the odds of Zohran Mamdani winning over Andrew Cuomo."},
		Narrative{Markdown: "The probability change is non-linear with reference to the original probability of Zohran Mamdani winning. For example:"},
		Narrative{Markdown: "- If there is a 20% chance Zohran Mamdani wins an election district, and that district’s average personal diversity score increases by 1%, then"},
		Formula{TeX: `\Delta p \approx 0.20 \cdot 0.80 \cdot 7.7 \cdot 0.01 = 0.0123 \quad (\approx +1.2 \text{ percentage points}).`},
		Narrative{Markdown: "- If there is a 50% chance Zohran Mamdani wins an election district, then"},
		Formula{TeX: `\Delta p \approx 0.50 \cdot 0.50 \cdot 7.7 \cdot 0.01 = 0.019 \quad (\approx +1.9 \text{ points}).`},
		Narrative{Markdown: "- If there is an 80% chance Zohran Mamdani wins an election district, then"},
		Formula{TeX: `\Delta p \approx 0.80 \cdot 0.20 \cdot 7.7 \cdot 0.01 = 0.0123 \quad (\approx +1.2 \text{ points}).`},
		Narrative{Content: "multinomial-average"},
		Formula{TeX: `(1 - 0.5)\cdot 7.7009 \cdot 0.5 \approx 1.93\%, \quad 51.93/50 = 1.0386`},
		Narrative{Markdown: "A nearly four percent elastic differential at the midpoint is quite large."},

		TableSection{Table: TableMultinomialWeighted},

		Narrative{Content: "weighted-model", NoteBox: true},
		Formula{TeX: `\text{Weighted Accuracy} = \frac{\sum_{\text{ED}} \text{Total}_{ED} \cdot 1\{\text{predicted winner} = \text{actual winner}\}}{\sum_{\text{ED}} \text{Total}_{ED}}`},
		Narrative{Content: "weighted-findings", NoteBox: true},

		Heading{Level: 2, Text: "What do these results mean for the upcoming election and Zohran Mamdani's political strategy?"},
		Narrative{Content: "strategy-lead"},
		Image{Asset: ImageQueens, Caption: "West-Queens Example: Diversity and Voting Patterns"},
		Narrative{Content: "strategy"},
	}
}
