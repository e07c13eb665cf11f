package voice

// Category is a named bucket of voice identifiers used to diversify
// assignment across characters
type Category string

const (
	CategoryNarrator Category = "narrator"
	CategoryFemale   Category = "female"
	CategoryMale     Category = "male"
	CategoryVillain  Category = "villain"
	CategoryChild    Category = "child"
	CategoryElder    Category = "elder"
)

// pools holds the ordered voice identifiers per category. Order matters:
// the round-robin index walks each pool front to back.
var pools = map[Category][]string{
	CategoryNarrator: {
		"English_expressive_narrator",
		"English_CaptivatingStoryteller",
		"English_WiseScholar",
	},
	CategoryFemale: {
		"English_radiant_girl",
		"English_compelling_lady1",
		"English_captivating_female1",
		"English_Upbeat_Woman",
		"English_CalmWoman",
		"English_Graceful_Lady",
		"English_PlayfulGirl",
		"English_LovelyGirl",
		"English_Wiselady",
		"English_SentimentalLady",
		"English_Soft-spokenGirl",
	},
	CategoryMale: {
		"English_magnetic_voiced_man",
		"English_Aussie_Bloke",
		"English_Trustworth_Man",
		"English_Gentle-voiced_man",
		"English_Diligent_Man",
		"English_ReservedYoungMan",
		"English_ManWithDeepVoice",
		"English_FriendlyPerson",
		"English_Debator",
		"English_Steadymentor",
		"English_Deep-VoicedGentleman",
		"English_DecentYoungMan",
		"English_PassionateWarrior",
	},
	CategoryVillain: {
		"English_ManWithDeepVoice",
		"English_Deep-VoicedGentleman",
		"English_ImposingManner",
	},
	CategoryChild: {
		"English_radiant_girl",
		"English_PlayfulGirl",
		"English_LovelyGirl",
		"English_Soft-spokenGirl",
	},
	CategoryElder: {
		"English_WiseScholar",
		"English_Wiselady",
		"English_MaturePartner",
		"English_Steadymentor",
	},
}

// PoolSize returns how many voices a category offers
func PoolSize(category Category) int {
	return len(pools[category])
}

// categoryFor maps an analysis to a voice category. Personality overrides
// beat the gender and age base mapping.
func categoryFor(analysis Analysis) Category {
	category := CategoryMale // default when gender is unknown

	switch analysis.Gender {
	case "female":
		switch analysis.AgeGroup {
		case "child":
			category = CategoryChild
		case "elder":
			category = CategoryElder
		default:
			category = CategoryFemale
		}
	case "male":
		switch analysis.AgeGroup {
		case "child":
			category = CategoryChild
		case "elder":
			category = CategoryElder
		default:
			category = CategoryMale
		}
	}

	switch analysis.PersonalityTrait {
	case "villainous", "sinister", "evil":
		category = CategoryVillain
	case "wise", "scholarly", "mentor":
		category = CategoryElder
	}

	return category
}
