package app

import "butterfly-quiz-service/internal/domain"

// StarterItems is the catalog loaded by the seed command on an empty store.
func StarterItems() []domain.Item {
	return []domain.Item{
		{Name: "Monarch", FormalName: "Danaus plexippus", ImageURL: "https://images.unsplash.com/photo-1560263816-d704d83cce0f", Difficulty: domain.DifficultyEasy},
		{Name: "Blue Morpho", FormalName: "Morpho menelaus", ImageURL: "https://images.unsplash.com/photo-1599631438215-75bc2640feb8", Difficulty: domain.DifficultyMedium},
		{Name: "Painted Lady", FormalName: "Vanessa cardui", ImageURL: "https://images.unsplash.com/photo-1533048324814-79b0a31982f1", Difficulty: domain.DifficultyEasy},
		{Name: "Red Admiral", FormalName: "Vanessa atalanta", ImageURL: "https://images.unsplash.com/photo-1564514476902-542f8c30121e", Difficulty: domain.DifficultyMedium},
		{Name: "Tiger Swallowtail", FormalName: "Papilio glaucus", ImageURL: "https://images.unsplash.com/photo-1702338354821-0ea4fb0221e3", Difficulty: domain.DifficultyEasy},
		{Name: "Black Swallowtail", FormalName: "Papilio polyxenes", ImageURL: "https://images.unsplash.com/photo-1657244670691-ec73025cf69e", Difficulty: domain.DifficultyMedium},
		{Name: "Spicebush Swallowtail", FormalName: "Papilio troilus", ImageURL: "https://images.unsplash.com/photo-1728946737947-3e1908c3750a", Difficulty: domain.DifficultyHard},
		{Name: "Pipevine Swallowtail", FormalName: "Battus philenor", ImageURL: "https://images.unsplash.com/photo-1628181150173-f5f355d15f28", Difficulty: domain.DifficultyHard},
		{Name: "Zebra Swallowtail", FormalName: "Eurytides marcellus", ImageURL: "https://images.pexels.com/photos/2671074/pexels-photo-2671074.jpeg", Difficulty: domain.DifficultyMedium},
		{Name: "Common Buckeye", FormalName: "Junonia coenia", ImageURL: "https://images.unsplash.com/photo-1623615412998-c63b6d5fe9be", Difficulty: domain.DifficultyMedium},
		{Name: "Pearl Crescent", FormalName: "Phyciodes tharos", ImageURL: "https://images.unsplash.com/photo-1484704193309-27eaa53936a7", Difficulty: domain.DifficultyHard},
		{Name: "Question Mark", FormalName: "Polygonia interrogationis", ImageURL: "https://images.unsplash.com/photo-1509715513011-e394f0cb20c4", Difficulty: domain.DifficultyHard},
		{Name: "Mourning Cloak", FormalName: "Nymphalis antiopa", ImageURL: "https://images.unsplash.com/photo-1592861377549-3586948b6a74", Difficulty: domain.DifficultyMedium},
		{Name: "Viceroy", FormalName: "Limenitis archippus", ImageURL: "https://images.pexels.com/photos/28749528/pexels-photo-28749528.jpeg", Difficulty: domain.DifficultyMedium},
		{Name: "Gulf Fritillary", FormalName: "Agraulis vanillae", ImageURL: "https://images.unsplash.com/photo-1560263816-d704d83cce0f", Difficulty: domain.DifficultyMedium},
		{Name: "Great Spangled Fritillary", FormalName: "Speyeria cybele", ImageURL: "https://images.unsplash.com/photo-1533048324814-79b0a31982f1", Difficulty: domain.DifficultyHard},
		{Name: "Cabbage White", FormalName: "Pieris rapae", ImageURL: "https://images.unsplash.com/photo-1702338354821-0ea4fb0221e3", Difficulty: domain.DifficultyEasy},
		{Name: "Clouded Sulphur", FormalName: "Colias philodice", ImageURL: "https://images.unsplash.com/photo-1728946737947-3e1908c3750a", Difficulty: domain.DifficultyMedium},
		{Name: "Orange Sulphur", FormalName: "Colias eurytheme", ImageURL: "https://images.unsplash.com/photo-1628181150173-f5f355d15f28", Difficulty: domain.DifficultyMedium},
		{Name: "Cloudless Sulphur", FormalName: "Phoebis sennae", ImageURL: "https://images.unsplash.com/photo-1564514476902-542f8c30121e", Difficulty: domain.DifficultyMedium},
		{Name: "Eastern Comma", FormalName: "Polygonia comma", ImageURL: "https://images.unsplash.com/photo-1599631438215-75bc2640feb8", Difficulty: domain.DifficultyHard},
		{Name: "American Lady", FormalName: "Vanessa virginiensis", ImageURL: "https://images.unsplash.com/photo-1623615412998-c63b6d5fe9be", Difficulty: domain.DifficultyMedium},
		{Name: "Common Checkered-Skipper", FormalName: "Pyrgus communis", ImageURL: "https://images.unsplash.com/photo-1484704193309-27eaa53936a7", Difficulty: domain.DifficultyHard},
		{Name: "Silver-spotted Skipper", FormalName: "Epargyreus clarus", ImageURL: "https://images.unsplash.com/photo-1509715513011-e394f0cb20c4", Difficulty: domain.DifficultyHard},
		{Name: "Gray Hairstreak", FormalName: "Strymon melinus", ImageURL: "https://images.unsplash.com/photo-1592861377549-3586948b6a74", Difficulty: domain.DifficultyHard},
		{Name: "Spring Azure", FormalName: "Celastrina ladon", ImageURL: "https://images.pexels.com/photos/2671074/pexels-photo-2671074.jpeg", Difficulty: domain.DifficultyMedium},
		{Name: "Eastern Tailed-Blue", FormalName: "Cupido comyntas", ImageURL: "https://images.pexels.com/photos/28749528/pexels-photo-28749528.jpeg", Difficulty: domain.DifficultyHard},
		{Name: "Little Yellow", FormalName: "Pyrisitia lisa", ImageURL: "https://images.unsplash.com/photo-1657244670691-ec73025cf69e", Difficulty: domain.DifficultyMedium},
		{Name: "Hackberry Emperor", FormalName: "Asterocampa celtis", ImageURL: "https://images.unsplash.com/photo-1560263816-d704d83cce0f", Difficulty: domain.DifficultyHard},
		{Name: "Red-spotted Purple", FormalName: "Limenitis arthemis", ImageURL: "https://images.unsplash.com/photo-1599631438215-75bc2640feb8", Difficulty: domain.DifficultyHard},
	}
}
