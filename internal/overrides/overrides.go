// Package overrides maps listing names to the catalog names they are known
// to differ from. Lookups are exact and case-sensitive.
package overrides

// defaultEntries are the known listing -> catalog renames, mostly dub names
// mapped to their original names.
var defaultEntries = map[string]string{
	"Yokomon":         "Pyocomon",
	"Motimon":         "Mochimon",
	"Frigimon":        "Yukidarumon",
	"Piximon":         "Piccolomon",
	"Datamon":         "Nanomon",
	"DemiDevimon":     "Pico Devimon",
	"Myotismon":       "Vamdemon",
	"Pabumon":         "Bubbmon",
	"ShogunGekomon":   "Tonosama Gekomon",
	"Gatomon":         "Tailmon",
	"Mammothmon":      "Mammon",
	"SkullMeramon":    "Death Meramon",
	"Pumpkinmon":      "Pumpmon",
	"Lillymon":        "Lilimon",
	"Phantomon":       "Fantomon",
	"MegaKabuterimon": "Atlur Kabuterimon (Blue)",
	"MagnaAngemon":    "Holy Angemon",
	"VenomMyotismon":  "Venom Vamdemon",
	"Salamon":         "Plotmon",
	"Chuumon":         "Tyumon",
	"Machinedramon":   "Mugendramon",
	"Piedmon":         "Piemon",
	"Puppetmon":       "Pinochimon",
	"Scorpiomon":      "Anomalocarimon",
	"Divermon":        "Hangyomon",
	"Mushroomon":      "Mushmon",
	"Deramon":         "Delumon",
	"Cherrymon":       "Jyureimon",
	"Garbagemon":      "Garbemon",
	"Vilemon":         "Evilmon",
	"Candlemon":       "Candmon",
	"Revolvermon":     "Revolmon",
	"Magnadramon":     "Holydramon",
	"Gorillamon":      "Gorimon",
	"Veedramon":       "V-dramon",
	"Phoenixmon":      "Hououmon",
	"Penguienmon":     "Penmon",
	"SnowAgumon":      "YukiAgumon",
	"Meteormon":       "Insekimon",
	"Piddomon":        "Pidmon",
	"Chibomon":        "Chicomon",
	"DemiVeemon":      "Chibimon",
	"Raidramon":       "Lighdramon",
	"ExVeemon":        "XV-mon",
	"Imperialdramon":  "Imperialdramon(Dragon Mode)",
	"Azulongmon":      "Qinglongmon",
	"Omnimon":         "Omegamon",
}

// Table is an immutable source -> target name mapping
type Table struct {
	entries map[string]string
}

// New builds a table from the built-in entries plus extra. Entries in extra
// replace built-in ones with the same key. Empty keys or targets are ignored.
func New(extra map[string]string) *Table {
	entries := make(map[string]string, len(defaultEntries)+len(extra))
	for k, v := range defaultEntries {
		entries[k] = v
	}
	for k, v := range extra {
		if k == "" || v == "" {
			continue
		}
		entries[k] = v
	}
	return &Table{entries: entries}
}

// NewFromEntries builds a table containing only the given entries
func NewFromEntries(entries map[string]string) *Table {
	copied := make(map[string]string, len(entries))
	for k, v := range entries {
		if k == "" || v == "" {
			continue
		}
		copied[k] = v
	}
	return &Table{entries: copied}
}

// Lookup returns the target name for source, if any
func (t *Table) Lookup(source string) (string, bool) {
	if t == nil {
		return "", false
	}
	target, ok := t.entries[source]
	return target, ok
}

// Len returns the number of entries
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
