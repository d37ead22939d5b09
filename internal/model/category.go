package model

// Seating categories. An enclosure is dedicated to one category or to
// MIXED, which admits every category. Attendees always carry a concrete
// category; MIXED is never a valid attendee category.
const (
    CategoryStudents = "STUDENTS"
    CategoryFaculty  = "FACULTY"
    CategoryStaff    = "STAFF"
    CategoryGuests   = "GUESTS"
    CategoryVIP      = "VIP"
    CategoryMixed    = "MIXED"
)

// ValidEnclosureCategory reports whether cat is an accepted value for
// enclosures.allocated_for.
func ValidEnclosureCategory(cat string) bool {
    switch cat {
    case CategoryStudents, CategoryFaculty, CategoryStaff, CategoryGuests, CategoryVIP, CategoryMixed:
        return true
    }
    return false
}

// ValidAttendeeCategory reports whether cat is an accepted value for
// attendees.category. Identical to the enclosure set minus MIXED.
func ValidAttendeeCategory(cat string) bool {
    return cat != CategoryMixed && ValidEnclosureCategory(cat)
}
