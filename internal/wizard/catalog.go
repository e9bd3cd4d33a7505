package wizard

// AvailableSkills are the skills offered on the skills step.
var AvailableSkills = []string{
	"Web Development", "Mobile Apps", "UI/UX Design", "Graphic Design",
	"Digital Marketing", "Content Writing", "Translation", "Photography",
	"Video Editing", "Social Media", "SEO", "Data Analysis",
	"Virtual Assistant", "Customer Service", "Consulting", "Tutoring",
	"Music Production", "Voice Over", "Animation", "Copywriting",
}

// Options offered on the booking preferences step.
var (
	WeekDays = []string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	}
	TimeSlotOptions = []string{
		"Morning (9AM-12PM)", "Afternoon (12PM-5PM)", "Evening (5PM-8PM)",
	}
	MeetingTypeOptions = []string{
		"Quick Chat (15min)", "Consultation (30min)", "Project Discussion (45min)", "Deep Dive (1hr)",
	}
)
