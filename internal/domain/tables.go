package domain

// Tables are the local tables migrated when carts are kept in postgres
var Tables = []interface{}{
	&CartSnapshot{},
}

// Logical names of the remote store tables
const (
	TableProducts          = "Products"
	TableTherapies         = "Therapies"
	TableBlogPosts         = "BlogPosts"
	TableServiceHighlights = "ServiceHighlights"
	TableTestimonials      = "Testimonials"
	TableBookings          = "Bookings"
)
