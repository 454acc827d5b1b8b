package library

import (
	"fmt"
	"math"
	"math/rand"

	"neonime/models"
)

type catalogItem struct {
	title  string
	genres []string
	poster string
}

// seedCatalog is the built-in list every library starts from. Order matters,
// entry ids are assigned by position and saved state is matched back by title.
var seedCatalog = []catalogItem{
	{"One Piece", []string{"Action", "Adventure", "Shonen"}, "https://cdn.myanimelist.net/images/anime/6/73245.jpg"},
	{"Naruto", []string{"Action", "Adventure", "Shonen"}, "https://cdn.myanimelist.net/images/anime/13/17405.jpg"},
	{"Naruto Shippuden", []string{"Action", "Adventure", "Shonen"}, "https://cdn.myanimelist.net/images/anime/5/17407.jpg"},
	{"Bleach", []string{"Action", "Supernatural", "Shonen"}, "https://cdn.myanimelist.net/images/anime/3/40451.jpg"},
	{"Dragon Ball", []string{"Action", "Adventure", "Comedy"}, "https://cdn.myanimelist.net/images/anime/1887/92644.jpg"},
	{"Dragon Ball Z", []string{"Action", "Shonen", "Super Power"}, "https://cdn.myanimelist.net/images/anime/6/20936.jpg"},
	{"Hunter x Hunter (2011)", []string{"Action", "Adventure", "Shonen"}, "https://cdn.myanimelist.net/images/anime/11/33657.jpg"},
	{"Fairy Tail", []string{"Action", "Adventure", "Magic"}, "https://cdn.myanimelist.net/images/anime/5/17834.jpg"},
	{"Fullmetal Alchemist: Brotherhood", []string{"Action", "Adventure", "Drama"}, "https://cdn.myanimelist.net/images/anime/1223/96541.jpg"},
	{"One Punch Man", []string{"Action", "Comedy", "Super Power"}, "https://cdn.myanimelist.net/images/anime/12/76049.jpg"},
	{"Mob Psycho 100", []string{"Action", "Comedy", "Supernatural"}, "https://cdn.myanimelist.net/images/anime/1993/93836.jpg"},
	{"Attack on Titan", []string{"Action", "Drama", "Military"}, "https://cdn.myanimelist.net/images/anime/10/47347.jpg"},
	{"Demon Slayer: Kimetsu no Yaiba", []string{"Action", "Supernatural"}, "https://cdn.myanimelist.net/images/anime/1286/99889.jpg"},
	{"Jujutsu Kaisen", []string{"Action", "Supernatural", "School"}, "https://cdn.myanimelist.net/images/anime/1171/109222.jpg"},
	{"My Hero Academia", []string{"Action", "School", "Super Power"}, "https://cdn.myanimelist.net/images/anime/10/78745.jpg"},
	{"Chainsaw Man", []string{"Action", "Supernatural"}, "https://cdn.myanimelist.net/images/anime/1806/126216.jpg"},
	{"Tokyo Revengers", []string{"Action", "Drama", "School"}, "https://cdn.myanimelist.net/images/anime/1839/122012.jpg"},
	{"Black Clover", []string{"Action", "Comedy", "Magic"}, "https://cdn.myanimelist.net/images/anime/2/88336.jpg"},
	{"Soul Eater", []string{"Action", "Fantasy", "Supernatural"}, "https://cdn.myanimelist.net/images/anime/9/13813.jpg"},
	{"Blue Exorcist", []string{"Action", "Fantasy", "Supernatural"}, "https://cdn.myanimelist.net/images/anime/2/75195.jpg"},
	{"Fire Force", []string{"Action", "Supernatural"}, "https://cdn.myanimelist.net/images/anime/1155/101859.jpg"},
	{"The Seven Deadly Sins", []string{"Action", "Adventure", "Fantasy"}, "https://cdn.myanimelist.net/images/anime/8/65409.jpg"},
	{"Akame ga Kill!", []string{"Action", "Fantasy"}, "https://cdn.myanimelist.net/images/anime/1429/95946.jpg"},
	{"Sakamoto Days", []string{"Action", "Comedy"}, "https://cdn.myanimelist.net/images/anime/1239/143584.jpg"},
	{"World Trigger", []string{"Action", "Sci-Fi"}, "https://cdn.myanimelist.net/images/anime/12/66847.jpg"},
	{"Re:Zero", []string{"Drama", "Fantasy", "Isekai"}, "https://cdn.myanimelist.net/images/anime/11/79410.jpg"},
	{"Mushoku Tensei: Jobless Reincarnation", []string{"Adventure", "Drama", "Fantasy"}, "https://cdn.myanimelist.net/images/anime/1530/117776.jpg"},
	{"That Time I Got Reincarnated as a Slime", []string{"Adventure", "Fantasy", "Isekai"}, "https://cdn.myanimelist.net/images/anime/2/95978.jpg"},
	{"Overlord", []string{"Action", "Fantasy", "Game"}, "https://cdn.myanimelist.net/images/anime/1284/93139.jpg"},
	{"No Game No Life", []string{"Adventure", "Comedy", "Game"}, "https://cdn.myanimelist.net/images/anime/1074/111944.jpg"},
	{"Konosuba", []string{"Adventure", "Comedy", "Fantasy"}, "https://cdn.myanimelist.net/images/anime/8/82544.jpg"},
	{"The Rising of the Shield Hero", []string{"Action", "Adventure", "Fantasy"}, "https://cdn.myanimelist.net/images/anime/18/95587.jpg"},
	{"Sword Art Online", []string{"Action", "Adventure", "Game"}, "https://cdn.myanimelist.net/images/anime/11/39717.jpg"},
	{"Log Horizon", []string{"Action", "Adventure", "Game"}, "https://cdn.myanimelist.net/images/anime/5/55199.jpg"},
	{"The Eminence in Shadow", []string{"Action", "Comedy", "Fantasy"}, "https://cdn.myanimelist.net/images/anime/1874/127418.jpg"},
	{"Goblin Slayer", []string{"Action", "Adventure", "Fantasy"}, "https://cdn.myanimelist.net/images/anime/1105/94998.jpg"},
	{"Ascendance of a Bookworm", []string{"Fantasy", "Slice of Life"}, "https://cdn.myanimelist.net/images/anime/1730/103173.jpg"},
	{"Uncle from Another World", []string{"Comedy", "Fantasy"}, "https://cdn.myanimelist.net/images/anime/1226/124803.jpg"},
	{"Fate/Zero", []string{"Action", "Fantasy", "Supernatural"}, "https://cdn.myanimelist.net/images/anime/2/73249.jpg"},
	{"Solo Leveling", []string{"Action", "Fantasy"}, "https://cdn.myanimelist.net/images/anime/1792/138036.jpg"},
	{"Oshi no Ko", []string{"Drama", "Supernatural"}, "https://cdn.myanimelist.net/images/anime/1812/134736.jpg"},
	{"Spy x Family", []string{"Action", "Comedy"}, "https://cdn.myanimelist.net/images/anime/1441/122795.jpg"},
	{"Dandadan", []string{"Action", "Supernatural"}, "https://cdn.myanimelist.net/images/anime/1928/143586.jpg"},
	{"Bocchi the Rock!!", []string{"Comedy", "Music", "Slice of Life"}, "https://cdn.myanimelist.net/images/anime/1448/127968.jpg"},
	{"Frieren: Beyond Journey's End", []string{"Adventure", "Fantasy", "Drama"}, "https://cdn.myanimelist.net/images/anime/1015/138006.jpg"},
	{"Kaiju No. 8", []string{"Action", "Sci-Fi"}, "https://cdn.myanimelist.net/images/anime/1948/142981.jpg"},
	{"Zom 100: Bucket List of the Dead", []string{"Action", "Comedy", "Horror"}, "https://cdn.myanimelist.net/images/anime/1384/136408.jpg"},
	{"The Apothecary Diaries", []string{"Drama", "Mystery"}, "https://cdn.myanimelist.net/images/anime/1738/138804.jpg"},
	{"Delicious in Dungeon", []string{"Adventure", "Comedy", "Fantasy"}, "https://cdn.myanimelist.net/images/anime/1412/140417.jpg"},
	{"Ranking of Kings", []string{"Adventure", "Fantasy"}, "https://cdn.myanimelist.net/images/anime/1347/117616.jpg"},
}

const seedRatingSource = 8891

// seedEntries builds the baseline list. Ratings come from a fixed source so
// a fresh library looks the same on every install.
func seedEntries() []models.AnimeEntry {
	rng := rand.New(rand.NewSource(seedRatingSource))
	entries := make([]models.AnimeEntry, 0, len(seedCatalog))
	for i, item := range seedCatalog {
		needs := true
		entries = append(entries, models.AnimeEntry{
			ID:              fmt.Sprintf("a%d", i+100),
			Title:           item.title,
			Poster:          item.poster,
			Rating:          math.Round((7.5+rng.Float64()*2)*100) / 100,
			Genres:          append([]string(nil), item.genres...),
			Episodes:        12,
			TotalSeasons:    1,
			Status:          models.StatusNone,
			NeedsEnrichment: &needs,
		})
	}
	return entries
}
