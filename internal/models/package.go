package models

import (
	"strconv"
	"strings"
)

// PackageCategory groups tuition packages for the catalog.
type PackageCategory string

const (
	CategorySingleSubject PackageCategory = "Single Subject"
	CategoryMultiSubject  PackageCategory = "Multi Subject"
	CategoryCustomPlan    PackageCategory = "Custom Plan"
)

// Subjects taught on the platform.
const (
	SubjectMaths             = "GCSE Maths"
	SubjectEnglishLanguage   = "GCSE English Language"
	SubjectEnglishLiterature = "GCSE English Literature"
	SubjectScience           = "GCSE Science"
	BespokePackageID         = "p-custom-bespoke"
	standardPaymentLink      = "https://buy.stripe.com/00w5kvdubcio1XbgQ30Fi00"
	enhancedPaymentLink      = "https://buy.stripe.com/6oUeV5bm30zGgS58jx0Fi03"
	standardGroupSize        = "10-14 students"
	enhancedGroupSize        = "5-8 students"
	sessionsPerSubjectBlock  = 4
	standardSingleSubjectGBP = 120
	enhancedSingleSubjectGBP = 144
)

// TuitionPackage is a purchasable programme. Variable priced packages leave Price and Sessions nil.
type TuitionPackage struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Category        PackageCategory `json:"category"`
	Tier            GroupFormat     `json:"tier,omitempty"`
	Subject         string          `json:"subject,omitempty"`
	PriceGBP        *int            `json:"price_gbp"`
	Sessions        *int            `json:"sessions"`
	SubjectsAllowed int             `json:"subjects_allowed,omitempty"`
	GroupSize       string          `json:"group_size,omitempty"`
	PaymentLink     string          `json:"payment_link,omitempty"`
	Description     string          `json:"description"`
}

// IsBundle reports whether the package books several subjects at once.
func (p TuitionPackage) IsBundle() bool {
	return p.Category == CategoryMultiSubject
}

func intPtr(v int) *int { return &v }

func singleSubject(id, subject string, tier GroupFormat, description string) TuitionPackage {
	pkg := TuitionPackage{
		ID:          id,
		Name:        subject,
		Category:    CategorySingleSubject,
		Tier:        tier,
		Subject:     subject,
		PriceGBP:    intPtr(standardSingleSubjectGBP),
		Sessions:    intPtr(sessionsPerSubjectBlock),
		GroupSize:   standardGroupSize,
		PaymentLink: standardPaymentLink,
		Description: description,
	}
	if tier == GroupFormatEnhanced {
		pkg.Name = subject + " (Enhanced)"
		pkg.PriceGBP = intPtr(enhancedSingleSubjectGBP)
		pkg.GroupSize = enhancedGroupSize
		pkg.PaymentLink = enhancedPaymentLink
	}
	return pkg
}

func bundle(subjects int, tier GroupFormat, price int, description string) TuitionPackage {
	suffix := "std"
	if tier == GroupFormatEnhanced {
		suffix = "enh"
	}
	return TuitionPackage{
		ID:              "p-ms-" + strconv.Itoa(subjects) + "-" + suffix,
		Name:            strconv.Itoa(subjects) + " Subject Bundle (" + string(tier) + ")",
		Category:        CategoryMultiSubject,
		Tier:            tier,
		PriceGBP:        intPtr(price),
		Sessions:        intPtr(subjects * sessionsPerSubjectBlock),
		SubjectsAllowed: subjects,
		Description:     description,
	}
}

// Catalog is the fixed tuition offering.
var Catalog = []TuitionPackage{
	singleSubject("p-maths-std", SubjectMaths, GroupFormatStandard, "Structured GCSE Maths programme focused on method, accuracy and exam confidence."),
	singleSubject("p-eng-lang-std", SubjectEnglishLanguage, GroupFormatStandard, "English Language programme developing clarity and writing control."),
	singleSubject("p-eng-lit-std", SubjectEnglishLiterature, GroupFormatStandard, "Literature programme covering themes, characters and essay structure."),
	singleSubject("p-sci-std", SubjectScience, GroupFormatStandard, "Science support across Biology, Chemistry and Physics."),
	singleSubject("p-maths-enh", SubjectMaths, GroupFormatEnhanced, "Small-group Maths support with more tutor interaction."),
	singleSubject("p-eng-lang-enh", SubjectEnglishLanguage, GroupFormatEnhanced, "Small-group English Language support with deeper feedback."),
	singleSubject("p-eng-lit-enh", SubjectEnglishLiterature, GroupFormatEnhanced, "Literature discussion with closer tutor guidance."),
	singleSubject("p-sci-enh", SubjectScience, GroupFormatEnhanced, "Science support with personalised clarification."),
	bundle(2, GroupFormatStandard, 232, "Standard bundle for two subjects."),
	bundle(2, GroupFormatEnhanced, 276, "Small-group bundle for two subjects."),
	bundle(3, GroupFormatStandard, 336, "Standard bundle for three subjects."),
	bundle(3, GroupFormatEnhanced, 396, "Small-group bundle for three subjects."),
	bundle(4, GroupFormatStandard, 432, "Standard bundle covering all four subjects."),
	bundle(4, GroupFormatEnhanced, 504, "Small-group bundle covering all four subjects."),
	{
		ID:          BespokePackageID,
		Name:        "Bespoke Plan",
		Category:    CategoryCustomPlan,
		Description: "Custom priced plan agreed with the academic team.",
	},
}

// FindPackage looks a package up by id.
func FindPackage(id string) (TuitionPackage, bool) {
	id = strings.TrimSpace(id)
	for _, pkg := range Catalog {
		if pkg.ID == id {
			return pkg, true
		}
	}
	return TuitionPackage{}, false
}
