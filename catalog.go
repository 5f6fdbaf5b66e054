package primarybrief

// DefaultBaseURL is the release origin missing map documents are fetched from.
const DefaultBaseURL = "https://github.com/izikn-tooz/NYCmayoralPrimaryanalysis/releases/download/v1Maps/"

// Page text.
const (
	PageTitle   = "How did diversity affect the recent New York City Democratic Mayoral Primary? Some lessons from the data."
	PageCaption = "An Independent Analysis by Isaac Tasch"
)

// AssetKind tells how a catalogued file is displayed.
type AssetKind int

const (
	KindDocument AssetKind = iota
	KindImage
	KindSpreadsheet
)

// String returns the kind name.
func (k AssetKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindImage:
		return "image"
	case KindSpreadsheet:
		return "spreadsheet"
	default:
		return "unknown"
	}
}

// Asset is a file the report reads. Path is relative to the assets directory
// and uses forward slashes. Remote assets are downloaded from the release
// origin under Name when Path is absent.
type Asset struct {
	Name   string
	Path   string
	Kind   AssetKind
	Remote bool
}

// Map documents, published as release assets.
var (
	MapOverlay = Asset{
		Name:   "overlay_results_top_with_slider_dots_bottom_static.html",
		Path:   "Primary Maps/overlay_results_top_with_slider_dots_bottom_static.html",
		Kind:   KindDocument,
		Remote: true,
	}
	MapPersonalDiversity = Asset{
		Name:   "personal_diversity_heatmap_no_water_overlap.html",
		Path:   "Primary Maps/personal_diversity_heatmap_no_water_overlap.html",
		Kind:   KindDocument,
		Remote: true,
	}
	MapShannonIndex = Asset{
		Name:   "shannon_index_heatmap_no_water_overlap.html",
		Path:   "Primary Maps/shannon_index_heatmap_no_water_overlap.html",
		Kind:   KindDocument,
		Remote: true,
	}
)

// Images, expected next to the binary's assets directory.
var (
	ImagePersonalDiversity = localAsset("Person_diversity_example.png", KindImage)
	ImagePersonalVsZohran  = localAsset("Personal_Diversity_vs_Proportion_Zohran.png", KindImage)
	ImageShannonVsZohran   = localAsset("ShannonindexvProportionZohran.png", KindImage)
	ImageQueens            = localAsset("Queens Example.png", KindImage)
)

// Table is a regression result spreadsheet shown with a CSV download.
type Table struct {
	ID      string // URL-safe identifier, used in /tables/{id}.csv
	Asset   Asset
	Heading string
	CSVName string // Download file name
	Sheet   string // Required sheet name; empty tries sheet.PreferredSheets then the first
	Label   string // Download button text
}

// Regression tables.
var (
	TableLogitFull = Table{
		ID:      "logit-full",
		Asset:   localAsset("LogitFull.xlsx", KindSpreadsheet),
		Heading: "Regression Results (Logit – Full Specification), Number of Observations: 3971, Pseudo R-Squared: 0.045",
		CSVName: "LogitFull_table.csv",
		Label:   "Download table as CSV",
		Sheet:   "Sheet1",
	}
	TableLogitPartial = Table{
		ID:      "logit-partial",
		Asset:   localAsset("LogitPartial.xlsx", KindSpreadsheet),
		Heading: "Regression Results (Logit – Partial Specification), Number of Observations: 3971, Pseudo R-Squared: 0.03688",
		CSVName: "LogitPartial_table.csv",
		Label:   "Download partial table as CSV",
		Sheet:   "Sheet1",
	}
	TableLogitBivariate = Table{
		ID:      "logit-bivariate",
		Asset:   localAsset("LogitBivariate.xlsx", KindSpreadsheet),
		Heading: "Regression Results (Logit – Bivariate Specification), Number of Observations: 3971, Pseudo R-Squared: 0.03036",
		CSVName: "LogitBivariate_table.csv",
		Label:   "Download bivariate table as CSV",
	}
	TableMultinomialUnweighted = Table{
		ID:      "multinomial-unweighted",
		Asset:   localAsset("Multinomial Unweighted.xlsx", KindSpreadsheet),
		Heading: "Regression Results (Multinomial Logit — Unweighted), Number of Observations: 3971, Pseudo R-Squared: 0.26, Within-sample accuracy: 0.744",
		CSVName: "Multinomial_Unweighted_table.csv",
		Label:   "Download multinomial table as CSV",
	}
	TableMultinomialWeighted = Table{
		ID:      "multinomial-weighted",
		Asset:   localAsset("Multinomial Weighted.xlsx", KindSpreadsheet),
		Heading: "Regression Results (Multinomial Logit — Weighted), Number of Observations: 348281, Pseudo R-Squared: 0.2919, Within-sample accuracy: 0.770",
		CSVName: "MultinomialWeighted_table.csv",
		Label:   "Download multinomial weighted table as CSV",
	}
)

func localAsset(name string, kind AssetKind) Asset {
	return Asset{Name: name, Path: name, Kind: kind}
}

// Maps lists the map documents in page order.
func Maps() []Asset {
	return []Asset{MapOverlay, MapPersonalDiversity, MapShannonIndex}
}

// Images lists the images in page order.
func Images() []Asset {
	return []Asset{ImagePersonalDiversity, ImagePersonalVsZohran, ImageShannonVsZohran, ImageQueens}
}

// Tables lists the regression tables in page order.
func Tables() []Table {
	return []Table{
		TableLogitFull,
		TableLogitPartial,
		TableLogitBivariate,
		TableMultinomialUnweighted,
		TableMultinomialWeighted,
	}
}

// Catalog lists every asset: maps, images, then spreadsheets.
func Catalog() []Asset {
	all := append(Maps(), Images()...)
	for _, t := range Tables() {
		all = append(all, t.Asset)
	}
	return all
}

// LookupTable returns the table with the given ID.
func LookupTable(id string) (Table, bool) {
	for _, t := range Tables() {
		if t.ID == id {
			return t, true
		}
	}
	return Table{}, false
}

// LookupImage returns the image whose file name is name.
func LookupImage(name string) (Asset, bool) {
	for _, a := range Images() {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}
