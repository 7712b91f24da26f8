package roster

// Player name components drawn from the major cricketing nations.
var firstNames = []string{
	// English and Australian
	"James", "Harry", "Ollie", "Ben", "Joe", "Sam",
	"Mitchell", "Travis", "Marcus", "Steve", "Pat", "Nathan",
	// South Asian
	"Rohit", "Virat", "Ishan", "Ravindra", "Jasprit", "Shubman",
	"Babar", "Shaheen", "Imam", "Kusal", "Dimuth", "Wanindu",
	// Caribbean
	"Kraigg", "Jason", "Shai", "Nicholas", "Alzarri", "Shimron",
	// New Zealand and South African
	"Kane", "Tim", "Trent", "Devon", "Temba", "Kagiso",
	"Aiden", "Rassie", "Lungi", "Daryl", "Tom", "Will",
}

var surnames = []string{
	"Anderson", "Brook", "Pope", "Stokes", "Root", "Curran",
	"Starc", "Head", "Harris", "Smith", "Cummins", "Lyon",
	"Sharma", "Kohli", "Kishan", "Jadeja", "Bumrah", "Gill",
	"Azam", "Afridi", "Haq", "Mendis", "Karunaratne", "Hasaranga",
	"Brathwaite", "Holder", "Hope", "Pooran", "Joseph", "Hetmyer",
	"Williamson", "Southee", "Boult", "Conway", "Bavuma", "Rabada",
	"Markram", "Dussen", "Ngidi", "Mitchell", "Latham", "Young",
}

// Team name components, club style.
var teamPlaces = []string{
	"Northern", "Southern", "Eastern", "Western", "Harbour",
	"Riverside", "Highland", "Coastal", "Central", "Valley",
	"Bayside", "Lakeland", "Midland", "Capital", "Island",
}

var teamNicknames = []string{
	"Kings", "Titans", "Strikers", "Royals", "Falcons",
	"Panthers", "Chargers", "Warriors", "Hurricanes", "Scorchers",
	"Stars", "Renegades", "Thunder", "Heat", "Sixers",
}
