package match

// noiseWords are dropped from titles before comparing them.
var noiseWords = map[string]bool{
	"for": true, "with": true, "and": true, "the": true, "a": true, "an": true,
	"in": true, "on": true, "at": true, "by": true, "of": true, "to": true, "from": true,
}

// brandAliases maps a canonical brand to the spellings seen on listings.
var brandAliases = map[string][]string{
	"amazon basics": {"amazonbasics", "amazon", "basics"},
	"best office":   {"bestoffice"},
	"ikea":          {"ikea group"},
	"wayfair":       {"wayfair llc"},
	"cuisinart":     {"conair cuisinart"},
	"kitchenaid":    {"kitchen aid"},
	"black decker":  {"black & decker", "blackdecker"},
	"under armour":  {"underarmour"},
	"hp":            {"hewlett-packard", "hewlett packard"},
	"lg":            {"lg electronics"},
}

// productTypes are title words that name what a product is.
var productTypes = map[string]bool{
	"chair": true, "recliner": true, "sofa": true, "couch": true, "loveseat": true,
	"stool": true, "bench": true, "ottoman": true, "seat": true,
	"table": true, "desk": true, "nightstand": true, "workstation": true, "stand": true,
	"bed": true, "dresser": true, "cabinet": true, "bookshelf": true, "shelf": true, "rack": true,
	"lamp": true, "light": true, "rug": true, "mirror": true,
	"lamps": true, "chairs": true, "tables": true, "desks": true, "stools": true, "shelves": true,
}

// relatedTypes groups product types that count as a partial category match.
var relatedTypes = [][]string{
	{"chair", "chairs", "recliner", "seat", "stool", "stools", "bench", "ottoman"},
	{"sofa", "couch", "loveseat"},
	{"table", "tables", "desk", "desks", "workstation", "stand", "nightstand"},
	{"dresser", "cabinet", "bookshelf", "shelf", "shelves", "rack"},
	{"lamp", "lamps", "light"},
}

var colorWords = map[string]bool{
	"black": true, "white": true, "grey": true, "gray": true, "brown": true, "beige": true,
	"blue": true, "navy": true, "green": true, "red": true, "pink": true, "yellow": true,
	"orange": true, "purple": true, "cream": true, "ivory": true, "tan": true, "teal": true,
	"walnut": true, "espresso": true, "natural": true, "charcoal": true, "gold": true, "silver": true,
}

// materialWords normalize to the material they name.
var materialWords = map[string]string{
	"wood": "wood", "wooden": "wood", "oak": "wood", "pine": "wood", "acacia": "wood", "mdf": "wood",
	"metal": "metal", "steel": "metal", "iron": "metal", "aluminum": "metal",
	"leather": "leather", "faux": "leather", "pu": "leather",
	"velvet": "velvet", "fabric": "fabric", "linen": "fabric", "upholstered": "fabric",
	"mesh": "mesh", "plastic": "plastic", "glass": "glass", "marble": "marble",
	"rattan": "rattan", "wicker": "rattan", "bamboo": "bamboo", "foam": "foam",
}

// featureWords are selling points worth a few points each when shared.
var featureWords = map[string]bool{
	"adjustable": true, "ergonomic": true, "swivel": true, "reclining": true, "rocking": true,
	"folding": true, "foldable": true, "stackable": true, "convertible": true, "modular": true,
	"armless": true, "armrest": true, "armrests": true, "lumbar": true, "headrest": true,
	"storage": true, "drawer": true, "drawers": true, "wheels": true, "casters": true,
	"cushioned": true, "padded": true, "tufted": true, "overstuffed": true, "waterproof": true,
	"outdoor": true, "indoor": true, "massage": true, "heated": true, "power": true,
	"usb": true, "wireless": true, "assembly": true, "set": true,
}
