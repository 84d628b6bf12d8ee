package validation

import (
	"regexp"
	"sort"
)

// quantity is the shared pattern of unit-bearing measurements: a
// number or a numeric range, followed by a unit.
const quantity = `[-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?(?: *- *[-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)? *([^\s-]{1,2}|[^\s-]+.+[^\s-]+)`

// freeText requires some visible content.
const freeText = `.+`

// term is an ontology annotation: "label [PREFIX:id]".
const term = `([^\s-]{1,2}|[^\s-]+.+[^\s-]+) \[[a-zA-Z]{2,}:[a-zA-Z0-9]\d+\]`

// termStamped is an ontology annotation followed by ";timestamp".
const termStamped = `([^\s-]+) \[[a-zA-Z]{2,}:[a-zA-Z0-9]\d+\]\;(([0-2][0-9]{3})\-([0-1]?[0-9])\-([0-3]?[0-9]))T(([0-1][0-9]|2[0-3]):[0-5][0-9](?:\:[0-5][0-9])?(?:Z|[+-](?:[0-1][0-9]|2[0-3]):[0-5][0-9]))`

// pH values run 0 to 14 with optional decimals.
const ph = `(?:14(?:\.0+)?|1[0-3](?:\.\d+)?|0(?:\.\d+)?|[1-9](?:\.\d+)?)`

// fieldPatterns maps "<category>_<field>" keys to the pattern a value
// of that field must fully match. Categories: project, site, sample,
// host.
var fieldPatterns = map[string]*regexp.Regexp{}

func init() {
	for key, src := range map[string]string{
		"project_project_name": freeText,

		"site_collection_date":     `(([0-2][0-9]{3})\-((1[0-2])|([1-9]))\-((3[0-1])|([1-2][0-9])|([0-9])))`,
		"site_Collected_by":        freeText,
		"site_geo_loc_name":        `([^\s-]{1,2}|[^\s-]+.+[^\s-]+): ([^\s-]{1,2}|[^\s-]+.+[^\s-]+), ([^\s-]{1,2}|[^\s-]+.+[^\s-]+)`,
		"site_lat":                 `(-?((?:[0-8]?[0-9](?:\.\d{0,8})?)|90))`,
		"site_lon":                 `(-?[0-9]+(?:\.[0-9]{0,8})?|-?(1[0-7]{1,2}))`,
		"site_elev":                quantity,
		"site_alt":                 quantity,
		"site_depth":               quantity,
		"site_env_broad_scale":     term,
		"site_env_local_scale":     term,
		"site_env_medium":          term,
		"site_chem_administration": termStamped,
		"site_temp":                quantity,
		"site_salinity":            quantity,
		"site_pH":                  ph,

		"sample_samp_name":           freeText,
		"sample_source_mat_id":       freeText,
		"sample_samp_size":           quantity,
		"sample_temp":                quantity,
		"sample_salinity":            quantity,
		"sample_ph":                  ph,
		"sample_samp_taxon_id":       `([^\s-]{1,2}|[^\s-]+.+[^\s-]+) \[NCBITaxon:\d+\]`,
		"sample_samp_collect_method": `(?:PMID:\d+|doi:10\.\d{2,9}/.*|https?:\/\/(?:www\.)?[-a-zA-Z0-9@:%._\+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}(?:[-a-zA-Z0-9()@:%_\+.~#?&\/=]*)|(?:[^\s-]{1,2}|[^\s-]+.+[^\s-]+))`,
		"sample_Microbial_isolate":   `(yes|no)`,
		"sample_microb_cult_med":     `(?:(?:[^\s-]{1,2}|[^\s-]+.+[^\s-]+)|((?:[^\s-]{1,2}|[^\s-]+.+[^\s-]+) \[[a-zA-Z]{2,}:[a-zA-Z0-9]\d+\]))`,
		"sample_chem_administration": termStamped,

		"host_host_taxid":        `([^\s-]{1,2}|[^\s-]+.+[^\s-]+) \[NCBITaxon:\d+\]`,
		"host_host_common_name":  freeText,
		"host_host_height":       quantity,
		"host_host_length":       quantity,
		"host_host_tot_mass":     quantity,
		"host_host_body_site":    term,
		"host_host_body_product": term,
		"host_host_age":          quantity,
		"host_host_sex":          `(female|male|other|unknown)`,
		"host_host_diet":         term,
		"host_host_disease_stat": `.*`,
	} {
		fieldPatterns[key] = regexp.MustCompile(`\A(?:` + src + `)\z`)
	}
}

// FieldKeys returns the supported "<category>_<field>" keys, sorted.
func FieldKeys() []string {
	keys := []string{}
	for k := range fieldPatterns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CheckFieldValue validates one value against the named field's
// pattern. known is false when no pattern is registered for the key.
func CheckFieldValue(key string, value string) (valid bool, known bool) {
	pattern, ok := fieldPatterns[key]
	if !ok {
		return false, false
	}
	return pattern.MatchString(value), true
}
