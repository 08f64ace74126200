package domain

import "strings"

// stateCodes maps GST jurisdiction names to their 2-digit codes as
// published for the Indian e-invoicing scheme.
var stateCodes = map[string]string{
	"jammu and kashmir":           "01",
	"himachal pradesh":            "02",
	"punjab":                      "03",
	"chandigarh":                  "04",
	"uttarakhand":                 "05",
	"haryana":                     "06",
	"delhi":                       "07",
	"rajasthan":                   "08",
	"uttar pradesh":               "09",
	"bihar":                       "10",
	"sikkim":                      "11",
	"arunachal pradesh":           "12",
	"nagaland":                    "13",
	"manipur":                     "14",
	"mizoram":                     "15",
	"tripura":                     "16",
	"meghalaya":                   "17",
	"assam":                       "18",
	"west bengal":                 "19",
	"jharkhand":                   "20",
	"odisha":                      "21",
	"chhattisgarh":                "22",
	"madhya pradesh":              "23",
	"gujarat":                     "24",
	"dadra and nagar haveli and daman and diu": "26",
	"maharashtra":                 "27",
	"andhra pradesh (old)":        "28",
	"karnataka":                   "29",
	"goa":                         "30",
	"lakshadweep":                 "31",
	"kerala":                      "32",
	"tamil nadu":                  "33",
	"puducherry":                  "34",
	"andaman and nicobar islands": "35",
	"telangana":                   "36",
	"andhra pradesh":              "37",
	"ladakh":                      "38",
}

// stateNames is the reverse lookup, built once at init.
var stateNames = func() map[string]string {
	m := make(map[string]string, len(stateCodes))
	for name, code := range stateCodes {
		m[code] = name
	}
	return m
}()

// StateCodeFor returns the 2-digit GST state code for a jurisdiction
// name, matched case-insensitively. Returns "" when unknown.
func StateCodeFor(name string) string {
	return stateCodes[strings.ToLower(strings.TrimSpace(name))]
}

// StateNameFor returns the lowercase jurisdiction name for a 2-digit
// state code. Returns "" when unknown.
func StateNameFor(code string) string {
	return stateNames[code]
}

// KnownStateCode reports whether code is a registered 2-digit state code.
func KnownStateCode(code string) bool {
	_, ok := stateNames[code]
	return ok
}
