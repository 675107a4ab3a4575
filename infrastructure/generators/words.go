package generators

// wordBank is the fixed vocabulary shared by the synthetic sources.
// Keeping it lowercase sidesteps case questions in expected answers.
var wordBank = []string{
	"acorn", "anchor", "antler", "apricot", "arrow", "autumn",
	"badger", "bamboo", "basket", "beacon", "birch", "blossom",
	"breeze", "bridge", "butter", "canyon", "carbon", "cedar",
	"cellar", "cinder", "cobalt", "compass", "copper", "coral",
	"cricket", "crystal", "current", "dagger", "dolphin", "drizzle",
	"ember", "falcon", "feather", "fennel", "flint", "forest",
	"fossil", "garnet", "geyser", "ginger", "glacier", "granite",
	"harbor", "hazel", "heron", "hollow", "ivory", "jasper",
	"juniper", "kestrel", "lagoon", "lantern", "lichen", "magnet",
	"maple", "marble", "meadow", "mineral", "mirror", "nectar",
	"nickel", "oasis", "obsidian", "orchard", "osprey", "otter",
	"pebble", "pepper", "pigeon", "pine", "plume", "prairie",
	"quartz", "raven", "reed", "ripple", "river", "saffron",
	"salmon", "sandal", "shadow", "silver", "sparrow", "spruce",
	"summit", "sunset", "thistle", "thunder", "timber", "tulip",
	"tundra", "velvet", "violet", "walnut", "willow", "winter",
	"yarrow", "zephyr",
}
