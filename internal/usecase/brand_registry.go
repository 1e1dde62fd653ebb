package usecase

import "strings"

// BrandEntry declares one canonical brand and the synonyms that resolve to
// it. Synonyms may span up to three tokens ("play station 5").
type BrandEntry struct {
	Canonical string
	Synonyms  []string
}

// BrandRegistry maps normalized title tokens to canonical brand names.
// Immutable after construction; lookups are O(tokens), not O(registry),
// because every synonym is preindexed by its token count.
type BrandRegistry struct {
	count   int
	phrases map[string]string // "western digital" -> "western digital"
	singles map[string]string // "wd" -> "western digital"
}

// NewBrandRegistry builds a registry from explicit entries. Canonical names
// and synonyms are normalized the same way titles are, so lookups stay
// case- and accent-insensitive.
func NewBrandRegistry(entries []BrandEntry) *BrandRegistry {
	r := &BrandRegistry{
		count:   len(entries),
		phrases: make(map[string]string),
		singles: make(map[string]string),
	}
	for _, e := range entries {
		canonical := foldText(e.Canonical)
		r.add(canonical, canonical)
		for _, syn := range e.Synonyms {
			r.add(foldText(syn), canonical)
		}
	}
	return r
}

func (r *BrandRegistry) add(synonym, canonical string) {
	tokens := strings.Fields(synonym)
	key := strings.Join(tokens, " ")
	if key == "" {
		return
	}
	if len(tokens) > 1 {
		if _, taken := r.phrases[key]; !taken {
			r.phrases[key] = canonical
		}
		return
	}
	if _, taken := r.singles[key]; !taken {
		r.singles[key] = canonical
	}
}

// Len returns the number of canonical brands in the registry.
func (r *BrandRegistry) Len() int { return r.count }

// Resolve scans normalized tokens left to right and returns the first
// canonical brand found, longest match first (three-token phrases, then
// pairs, then single tokens at each position), together with the indexes of
// the tokens the match absorbed. A title resolves to at most one brand.
func (r *BrandRegistry) Resolve(tokens []string) (string, []int) {
	for i := range tokens {
		for n := 3; n >= 2; n-- {
			if i+n > len(tokens) {
				continue
			}
			key := strings.Join(tokens[i:i+n], " ")
			if canonical, ok := r.phrases[key]; ok {
				consumed := make([]int, n)
				for j := range consumed {
					consumed[j] = i + j
				}
				return canonical, consumed
			}
		}
		if canonical, ok := r.singles[tokens[i]]; ok {
			return canonical, []int{i}
		}
	}
	return "", nil
}

// DefaultBrandRegistry returns the registry used for Spanish-market SERP
// analysis. Canonical names follow vendor branding; product families that
// buyers search by ("iphone", "conga") resolve to their vendor, consoles
// resolve to the console name the market compares prices on.
func DefaultBrandRegistry() *BrandRegistry {
	return NewBrandRegistry(defaultBrands)
}

var defaultBrands = []BrandEntry{
	// Phones, tablets, computers
	{Canonical: "apple", Synonyms: []string{"iphone", "i-phone", "ipad", "i-pad", "macbook", "mac book", "imac", "airpods", "air pods"}},
	{Canonical: "samsung", Synonyms: []string{"galaxy"}},
	{Canonical: "xiaomi", Synonyms: []string{"redmi", "poco"}},
	{Canonical: "huawei"},
	{Canonical: "honor"},
	{Canonical: "oppo"},
	{Canonical: "oneplus", Synonyms: []string{"one plus"}},
	{Canonical: "vivo"},
	{Canonical: "realme"},
	{Canonical: "motorola", Synonyms: []string{"moto"}},
	{Canonical: "nokia"},
	{Canonical: "google", Synonyms: []string{"pixel"}},
	{Canonical: "sony", Synonyms: []string{"xperia"}},
	{Canonical: "asus", Synonyms: []string{"rog", "tuf", "zenfone", "zenbook", "vivobook", "zephyrus", "strix"}},
	{Canonical: "acer", Synonyms: []string{"predator", "aspire", "swift", "triton"}},
	{Canonical: "lenovo", Synonyms: []string{"thinkpad", "ideapad", "legion", "yoga", "loq"}},
	{Canonical: "hp", Synonyms: []string{"omen", "pavilion", "envy", "victus", "spectre"}},
	{Canonical: "dell", Synonyms: []string{"alienware", "xps", "inspiron"}},
	{Canonical: "msi", Synonyms: []string{"cyborg", "katana", "raider", "stealth", "titan", "crosshair"}},
	{Canonical: "gigabyte", Synonyms: []string{"aorus", "aero"}},
	{Canonical: "razer", Synonyms: []string{"blade"}},
	{Canonical: "microsoft", Synonyms: []string{"surface"}},
	{Canonical: "lg"},
	{Canonical: "philips"},
	{Canonical: "panasonic"},
	{Canonical: "toshiba"},
	{Canonical: "fujitsu"},
	{Canonical: "medion"},

	// Consoles and gaming
	{Canonical: "playstation 5", Synonyms: []string{"ps5", "playstation5", "play station 5"}},
	{Canonical: "playstation 4", Synonyms: []string{"ps4", "playstation4", "play station 4"}},
	{Canonical: "playstation", Synonyms: []string{"psx", "psone"}},
	{Canonical: "nintendo switch", Synonyms: []string{"nswitch"}},
	{Canonical: "nintendo"},
	{Canonical: "xbox", Synonyms: []string{"xboxone", "xbone", "xbox one", "xbox series", "xboxseries"}},
	{Canonical: "valve", Synonyms: []string{"steam deck"}},
	{Canonical: "elgato", Synonyms: []string{"stream deck", "streamdeck"}},
	{Canonical: "thrustmaster"},
	{Canonical: "fanatec"},
	{Canonical: "8bitdo"},
	{Canonical: "turtle beach", Synonyms: []string{"turtlebeach"}},
	{Canonical: "nacon"},
	{Canonical: "hori"},
	{Canonical: "newskill"},
	{Canonical: "krom"},
	{Canonical: "tempest"},
	{Canonical: "mars gaming"},
	{Canonical: "nox"},
	{Canonical: "coolbox"},
	{Canonical: "ozone"},

	// PC components and peripherals
	{Canonical: "nvidia", Synonyms: []string{"geforce"}},
	{Canonical: "amd", Synonyms: []string{"radeon", "ryzen"}},
	{Canonical: "intel"},
	{Canonical: "logitech", Synonyms: []string{"logi"}},
	{Canonical: "corsair"},
	{Canonical: "steelseries", Synonyms: []string{"steel series"}},
	{Canonical: "hyperx", Synonyms: []string{"hyper x"}},
	{Canonical: "trust"},
	{Canonical: "genius"},
	{Canonical: "keychron"},
	{Canonical: "ducky"},
	{Canonical: "roccat"},
	{Canonical: "cherry"},
	{Canonical: "thermaltake"},
	{Canonical: "cooler master", Synonyms: []string{"coolermaster"}},
	{Canonical: "nzxt"},
	{Canonical: "be quiet", Synonyms: []string{"bequiet"}},
	{Canonical: "evga"},
	{Canonical: "zotac"},
	{Canonical: "palit"},
	{Canonical: "pny"},
	{Canonical: "sapphire"},
	{Canonical: "asrock"},
	{Canonical: "seagate"},
	{Canonical: "western digital", Synonyms: []string{"wd"}},
	{Canonical: "sandisk"},
	{Canonical: "kingston"},
	{Canonical: "crucial"},
	{Canonical: "benq"},
	{Canonical: "viewsonic"},
	{Canonical: "aoc"},
	{Canonical: "wacom"},
	{Canonical: "huion"},
	{Canonical: "xp-pen", Synonyms: []string{"xppen"}},

	// Networking
	{Canonical: "tp-link", Synonyms: []string{"tplink"}},
	{Canonical: "netgear"},
	{Canonical: "d-link", Synonyms: []string{"dlink"}},
	{Canonical: "ubiquiti", Synonyms: []string{"unifi"}},
	{Canonical: "zyxel"},
	{Canonical: "linksys"},
	{Canonical: "devolo"},

	// Cameras and drones
	{Canonical: "canon", Synonyms: []string{"eos"}},
	{Canonical: "nikon"},
	{Canonical: "fujifilm"},
	{Canonical: "gopro", Synonyms: []string{"go pro"}},
	{Canonical: "dji", Synonyms: []string{"osmo", "mavic"}},
	{Canonical: "insta360"},
	{Canonical: "polaroid"},

	// Audio
	{Canonical: "bose"},
	{Canonical: "jbl"},
	{Canonical: "harman kardon", Synonyms: []string{"harman"}},
	{Canonical: "marshall"},
	{Canonical: "bang & olufsen", Synonyms: []string{"bang olufsen"}},
	{Canonical: "sennheiser"},
	{Canonical: "audio-technica", Synonyms: []string{"audio technica"}},
	{Canonical: "sonos"},
	{Canonical: "beats"},
	{Canonical: "jabra"},
	{Canonical: "shure"},
	{Canonical: "rode"},
	{Canonical: "behringer"},
	{Canonical: "focusrite"},
	{Canonical: "yamaha"},
	{Canonical: "pioneer"},
	{Canonical: "denon"},
	{Canonical: "onkyo"},
	{Canonical: "edifier"},
	{Canonical: "creative"},
	{Canonical: "anker", Synonyms: []string{"soundcore"}},
	{Canonical: "belkin"},
	{Canonical: "baseus"},

	// Wearables and mobility
	{Canonical: "garmin"},
	{Canonical: "tomtom", Synonyms: []string{"tom tom"}},
	{Canonical: "fitbit"},
	{Canonical: "polar"},
	{Canonical: "suunto"},
	{Canonical: "coros"},
	{Canonical: "amazfit"},
	{Canonical: "withings"},
	{Canonical: "segway", Synonyms: []string{"ninebot"}},
	{Canonical: "youin", Synonyms: []string{"you in"}},
	{Canonical: "nilox"},
	{Canonical: "smartgyro"},

	// Home and kitchen appliances
	{Canonical: "cecotec", Synonyms: []string{"conga", "mambo", "bamba"}},
	{Canonical: "irobot", Synonyms: []string{"roomba"}},
	{Canonical: "roborock"},
	{Canonical: "dreame"},
	{Canonical: "ecovacs", Synonyms: []string{"deebot"}},
	{Canonical: "dyson"},
	{Canonical: "rowenta"},
	{Canonical: "tefal"},
	{Canonical: "moulinex"},
	{Canonical: "krups"},
	{Canonical: "delonghi", Synonyms: []string{"de longhi"}},
	{Canonical: "nespresso"},
	{Canonical: "smeg"},
	{Canonical: "kitchenaid", Synonyms: []string{"kitchen aid"}},
	{Canonical: "bosch"},
	{Canonical: "siemens"},
	{Canonical: "balay"},
	{Canonical: "teka"},
	{Canonical: "zanussi"},
	{Canonical: "electrolux"},
	{Canonical: "whirlpool"},
	{Canonical: "aeg"},
	{Canonical: "beko"},
	{Canonical: "candy"},
	{Canonical: "hisense"},
	{Canonical: "haier"},
	{Canonical: "daikin"},
	{Canonical: "mitsubishi electric", Synonyms: []string{"mitsubishi"}},
	{Canonical: "taurus"},
	{Canonical: "ufesa"},
	{Canonical: "orbegozo"},

	// Personal care
	{Canonical: "braun"},
	{Canonical: "remington"},
	{Canonical: "babyliss"},
	{Canonical: "oral-b", Synonyms: []string{"oralb", "oral b"}},
	{Canonical: "gillette"},

	// Tools and garden
	{Canonical: "makita"},
	{Canonical: "dewalt"},
	{Canonical: "black & decker", Synonyms: []string{"black decker", "black+decker"}},
	{Canonical: "stanley"},
	{Canonical: "einhell"},
	{Canonical: "parkside"},
	{Canonical: "gardena"},
	{Canonical: "karcher"},
	{Canonical: "husqvarna"},
	{Canonical: "ryobi"},
	{Canonical: "greenworks"},

	// Toys and child gear
	{Canonical: "lego"},
	{Canonical: "playmobil"},
	{Canonical: "hasbro"},
	{Canonical: "mattel"},
	{Canonical: "fisher-price", Synonyms: []string{"fisher price"}},
	{Canonical: "chicco"},
	{Canonical: "joie"},
	{Canonical: "maxi-cosi", Synonyms: []string{"maxi cosi", "maxicosi"}},
	{Canonical: "britax"},
	{Canonical: "cybex"},

	// Sport and apparel
	{Canonical: "adidas"},
	{Canonical: "nike"},
	{Canonical: "puma"},
	{Canonical: "reebok"},
	{Canonical: "asics"},
	{Canonical: "new balance", Synonyms: []string{"newbalance"}},
	{Canonical: "under armour", Synonyms: []string{"under armor"}},
	{Canonical: "salomon"},
	{Canonical: "columbia"},
	{Canonical: "the north face", Synonyms: []string{"north face"}},
	{Canonical: "quechua"},
	{Canonical: "decathlon"},

	// Watches
	{Canonical: "casio"},
	{Canonical: "seiko"},
	{Canonical: "citizen"},
	{Canonical: "fossil"},
	{Canonical: "swatch"},
	{Canonical: "tissot"},
	{Canonical: "timex"},

	// Printing
	{Canonical: "epson"},
	{Canonical: "brother"},
	{Canonical: "xerox"},
	{Canonical: "kyocera"},

	// Retail house brands and stores seen in SERP titles
	{Canonical: "pccomponentes", Synonyms: []string{"pccom", "pccm"}},
	{Canonical: "amazon", Synonyms: []string{"amazon basics", "amazonbasics"}},
	{Canonical: "mediamarkt", Synonyms: []string{"media markt"}},
	{Canonical: "carrefour"},
	{Canonical: "fnac"},
	{Canonical: "el corte ingles", Synonyms: []string{"corte ingles"}},
	{Canonical: "worten"},
	{Canonical: "alcampo"},
	{Canonical: "ikea"},
	{Canonical: "leroy merlin", Synonyms: []string{"leroy"}},
	{Canonical: "bricomart"},
}
