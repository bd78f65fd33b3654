package progress

const (
	// Default mastery targets assigned when seeding the built-in
	// curriculum. Sitting tricks are run on a shorter line.
	defaultMaxCones        = 20
	defaultMaxConesSitting = 14
)

// seedMaxCones returns the default mastery target for a category.
func seedMaxCones(cat Category) int {
	if cat == CategorySitting {
		return defaultMaxConesSitting
	}
	return defaultMaxCones
}

// SeedTricks returns the built-in freestyle-slalom curriculum with
// category-dependent default targets filled in. Used whenever the
// persisted state has no trick list of its own.
func SeedTricks() []Trick {
	defs := []struct {
		id, name string
		level    Level
		category Category
	}{
		// Level E — entry line work.
		{"e_snake", "Snake", LevelE, CategoryFootwork},
		{"e_fish", "Fish", LevelE, CategoryFootwork},
		{"e_monoline", "Monoline", LevelE, CategoryFootwork},
		{"e_eagle", "Eagle", LevelE, CategoryFootwork},
		{"e_sun", "Sun", LevelE, CategorySpinning},

		// Level D.
		{"d_crazy", "Crazy", LevelD, CategoryFootwork},
		{"d_nelson", "Nelson", LevelD, CategoryFootwork},
		{"d_onefoot", "One Foot", LevelD, CategoryFootwork},
		{"d_crab", "Crab", LevelD, CategoryOthers},
		{"d_xsun", "X-Sun", LevelD, CategorySpinning},
		{"d_basic_sit", "Basic Sitting", LevelD, CategorySitting},

		// Level C.
		{"c_chickenleg", "Chicken Leg", LevelC, CategoryFootwork},
		{"c_mexican", "Mexican", LevelC, CategoryFootwork},
		{"c_toe_wheeling", "Toe Wheeling", LevelC, CategoryWheeling},
		{"c_heel_wheeling", "Heel Wheeling", LevelC, CategoryWheeling},
		{"c_shift", "Shift", LevelC, CategoryJumping},
		{"c_kazachok", "Kazachok", LevelC, CategorySitting},

		// Level B.
		{"b_seven", "Seven", LevelB, CategorySpinning},
		{"b_screw", "Screw", LevelB, CategorySpinning},
		{"b_cobra", "Cobra", LevelB, CategorySitting},
		{"b_special", "Special", LevelB, CategoryJumping},
		{"b_toe_seven", "Toe Seven", LevelB, CategorySpinning},

		// Level A — competition tricks.
		{"a_wheeling_seven", "Wheeling Seven", LevelA, CategoryWheeling},
		{"a_heel_seven", "Heel Seven", LevelA, CategoryWheeling},
		{"a_butterfly", "Butterfly", LevelA, CategoryJumping},
		{"a_toe_shift", "Toe Shift", LevelA, CategoryJumping},
		{"a_back_special", "Back Special", LevelA, CategoryJumping},
	}

	tricks := make([]Trick, 0, len(defs))
	for _, d := range defs {
		tricks = append(tricks, Trick{
			ID:       d.id,
			Name:     d.name,
			Level:    d.level,
			Category: d.category,
			MaxCones: seedMaxCones(d.category),
		})
	}
	return tricks
}
