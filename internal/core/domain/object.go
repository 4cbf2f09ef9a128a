package domain

// ObjectClass is the closed set of cultural heritage object categories.
// Classes carry no extra fields and exist for categorical display.
type ObjectClass string

const (
	ClassNauticalChart    ObjectClass = "NauticalChart"
	ClassManuscriptPlate  ObjectClass = "ManuscriptPlate"
	ClassManuscriptVolume ObjectClass = "ManuscriptVolume"
	ClassPrintedVolume    ObjectClass = "PrintedVolume"
	ClassPrintedMaterial  ObjectClass = "PrintedMaterial"
	ClassHerbarium        ObjectClass = "Herbarium"
	ClassSpecimen         ObjectClass = "Specimen"
	ClassPainting         ObjectClass = "Painting"
	ClassModel            ObjectClass = "Model"
	ClassMap              ObjectClass = "Map"
)

// objectClasses lists every valid class in catalogue order.
var objectClasses = []ObjectClass{
	ClassNauticalChart,
	ClassManuscriptPlate,
	ClassManuscriptVolume,
	ClassPrintedVolume,
	ClassPrintedMaterial,
	ClassHerbarium,
	ClassSpecimen,
	ClassPainting,
	ClassModel,
	ClassMap,
}

// ObjectClasses returns every valid object class.
func ObjectClasses() []ObjectClass {
	out := make([]ObjectClass, len(objectClasses))
	copy(out, objectClasses)
	return out
}

// ParseObjectClass maps a class tag to its ObjectClass.
// The second return value is false for unknown tags.
func ParseObjectClass(tag string) (ObjectClass, bool) {
	for _, c := range objectClasses {
		if string(c) == tag {
			return c, true
		}
	}
	return "", false
}

// CulturalHeritageObject is a catalogued physical object.
type CulturalHeritageObject struct {
	// Class is the object category.
	Class ObjectClass

	// Identifier is the catalogue identifier. Required.
	Identifier string

	// Title is the object title. Required.
	Title string

	// Owner is the holding institution. Required.
	Owner string

	// Place is the place of origin. Required.
	Place string

	// Date is the creation date, empty when unknown.
	Date string

	// HasAuthor lists the authors in source row order. May be empty.
	HasAuthor []Person
}

// NewCulturalHeritageObject creates an object with its own empty author list.
func NewCulturalHeritageObject(class ObjectClass, identifier, title, owner, place, date string) *CulturalHeritageObject {
	return &CulturalHeritageObject{
		Class:      class,
		Identifier: identifier,
		Title:      title,
		Owner:      owner,
		Place:      place,
		Date:       date,
		HasAuthor:  make([]Person, 0),
	}
}

// ID returns the object identifier.
func (o *CulturalHeritageObject) ID() string {
	return o.Identifier
}

// AddAuthor appends an author to the object.
func (o *CulturalHeritageObject) AddAuthor(p Person) {
	o.HasAuthor = append(o.HasAuthor, p)
}

// Equal reports whether every field of o and other is equal, comparing
// authors as an ordered sequence.
func (o *CulturalHeritageObject) Equal(other *CulturalHeritageObject) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.Class != other.Class ||
		o.Identifier != other.Identifier ||
		o.Title != other.Title ||
		o.Owner != other.Owner ||
		o.Place != other.Place ||
		o.Date != other.Date ||
		len(o.HasAuthor) != len(other.HasAuthor) {
		return false
	}
	for i := range o.HasAuthor {
		if o.HasAuthor[i] != other.HasAuthor[i] {
			return false
		}
	}
	return true
}

// CompareObjects orders objects by identifier.
func CompareObjects(a, b *CulturalHeritageObject) int {
	return CompareIdentifiers(a.Identifier, b.Identifier)
}
