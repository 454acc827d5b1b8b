package companion

import "fmt"

// Image style presets appended to every genre prompt.
const (
	StyleGemini     = "GEMINI"
	StyleMidjourney = "MIDJOURNEY"
	StyleStableDiff = "STABLE_DIFF"
)

var styleModifiers = map[string]string{
	StyleGemini:     ", anime style, cinematic lighting, neon atmosphere",
	StyleMidjourney: ", hyper-realistic anime, 8k, intricate details, volumetric lighting, unreal engine 5 render, photorealistic, v 6.0 style",
	StyleStableDiff: ", masterpiece, best quality, ultra-detailed, illustration, dynamic angle, vibrant colors, artstation trending, studio ghibli style",
}

// safeGenreSubjects replaces prompts for genres the image model tends to
// refuse with neutral subjects.
var safeGenreSubjects = map[string]string{
	"Ecchi":         "Glamorous Anime Fashion",
	"Military":      "Futuristic Strategist",
	"Horror":        "Dark Fantasy Atmosphere",
	"Thriller":      "Noir Mystery",
	"Harem":         "Anime Group Cast",
	"Seinen":        "Cinematic City Life",
	"Psychological": "Abstract Anime Art",
}

var genrePrompts = map[string]string{
	"Psychological":  "Anime character in shadow, glowing eyes, floating abstract symbols, intense atmosphere, cinematic lighting, surreal art style",
	"Shonen":         "Determined anime hero, spiky hair, glowing energy fist, dynamic wind effects, swirling particles, action pose, vibrant colors",
	"Adventure":      "Anime traveler with cloak and backpack standing on a cliff, wind moving cape, dust and light particles swirling, wide fantasy landscape behind",
	"Action":         "Anime battle scene, high speed motion blur, sparks, dynamic angle, energy trails, dramatic impact, intense action",
	"Isekai":         "Anime boy or girl being pulled into a glowing magical portal, floating runes around, cloak flowing, energy effects",
	"Mystery":        "Masked anime man with half-hidden face, sly smile, drifting fog, glowing eyes beneath the mask",
	"Comedy":         "Chibi-style anime character laughing uncontrollably, exaggerated expression, bouncing animation, pastel glow",
	"Supernatural":   "Anime character surrounded by spirits or floating blue flames, glowing symbols, eerie but stylish aura",
	"Seinen":         "Mature anime portrait, city rain background, neon lights reflection, cinematic depth of field, serious mood, detailed shading",
	"Ecchi":          "Stylish anime girl with confident pose, soft lighting, subtle motion like hair sway, playful expression, no explicit content",
	"Military":       "Anime soldier in tactical gear, sci-fi rifle lowered, floating holographic HUD elements, slow camera shake effect",
	"Music":          "Anime girl wearing headphones, eyes closed, sound waves visualized as glowing lines moving rhythmically",
	"School":         "Anime student standing in a school hallway, sunlight through windows, gentle dust particles floating",
	"Shojo":          "Elegant anime girl with flowing hair, soft eyes, pastel glow, slow blinking animation",
	"Romance":        "Anime couple under an umbrella, gentle rain, warm sunset glow, emotional moment, soft lighting, sentimental mood",
	"Fantasy":        "Anime mage casting spell, glowing magic circle, elemental effects, fantasy robes, magical staff, mythical atmosphere",
	"Sci-Fi":         "Cyberpunk anime character, neon city background, holographic interface, futuristic tech wear, glowing circuits, high tech",
	"Thriller":       "Suspenseful anime scene, dark alley, sharp contrast lighting, silhouette, tense atmosphere, mystery thriller vibe",
	"Horror":         "Anime figure partially hidden in darkness, red glowing eyes, creeping fog, ominous atmosphere",
	"Drama":          "Anime character looking away with teary eyes, wind moving hair gently, muted cinematic colors",
	"Slice of Life":  "Anime character sipping tea by a window, calm breathing animation, warm ambient lighting",
	"Sports":         "Anime athlete in action, sweat drops, intense focus, speed lines, stadium background, dynamic energy, sports motion",
	"All":            "Futuristic anime hub, multiple screens showing diverse worlds, neon blue and pink aesthetic, immersive tech, cyberpunk interface",
	"Mecha":          "Giant anime robot in hangar, mechanic repairs, sparks, metallic textures, massive scale, sci-fi machinery, glowing eyes",
	"Harem":          "Anime protagonist with diverse group of friends, colorful character designs, cheerful school setting, bright lighting, anime cast",
	"Magic":          "Anime wizard reading glowing grimoire, floating magical items, library background, mystical light effects, spellcasting",
	"Historical":     "Samurai anime character, traditional kimono, katana, cherry blossoms, ancient temple background, historical aesthetic, sepia tones",
	"Space":          "Anime astronaut looking at galaxy, spaceship interior, stars reflection, deep space nebula, sci-fi wonder, cosmic view",
	"Josei":          "Mature anime woman, soft elegant lighting, realistic proportions, emotional expression, josei art style, sophisticated atmosphere",
	"Vampire":        "Anime vampire with glowing red eyes, gothic castle background, bats, dark atmosphere, pale skin, fangs, supernatural aura",
	"Samurai":        "Anime samurai drawing katana, cherry blossoms falling, traditional japanese temple, intense focus, historical wear, bushido spirit",
	"Shonen Ai":      "Two anime characters, gentle emotional connection, soft focus, pastel colors, shonen-ai aesthetic, subtle romance, warm lighting",
	"Martial Arts":   "Anime martial artist in combat stance, dynamic action lines, dojo background, intense focus, muscular build",
	"Game":           "Anime character wearing VR headset, digital particles, game interface overlay, health bars, pixel art elements, cybernetic glow",
	"Kids":           "Bright colorful anime characters, cute animals, sunny park background, cheerful atmosphere, simple shapes, vibrant saturation",
	"Police":         "Anime detective in trench coat, crime scene tape, flashing police lights, night city street, noir style, serious expression",
	"Cars":           "Anime street racing car drifting, smoke from tires, speed lines, night city highway, neon reflections on metal, intense motion",
	"Super Power":    "Anime hero charging energy blast, glowing aura, flying rocks, lightning crackles, intense power display, dynamic angle",
	"Dementia":       "Abstract anime art, distorted reality, psychological horror, mind-bending visuals, surreal atmosphere, intense emotion, experimental style",
}

// genreImagePrompt assembles the full prompt for a genre, preferring the
// neutral subject when one exists.
func genreImagePrompt(genre, style string) string {
	base, ok := safeGenreSubjects[genre]
	if !ok {
		base, ok = genrePrompts[genre]
	}
	if !ok || base == "" {
		base = fmt.Sprintf("Anime style representation of %s", genre)
	}
	modifier, ok := styleModifiers[style]
	if !ok {
		modifier = styleModifiers[StyleGemini]
	}
	return base + modifier
}
