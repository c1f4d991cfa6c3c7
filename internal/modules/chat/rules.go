package chat

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/shagor/portfolio-core/internal/models"
)

var (
	punctuation = regexp.MustCompile(`[^\w\s]`)

	// greetings only count as whole words so "this" or "which" are not a "hi"
	greetingPattern = regexp.MustCompile(`\b(hi|hello|hey|greetings|good morning|good afternoon|good evening)\b`)

	aboutKeywords    = []string{"about", "who are you", "introduce", "background", "experience", "expertise", "who are", "tell me about"}
	skillsKeywords   = []string{"skill", "technology", "tech", "language", "framework", "tool", "proficient", "know", "what can"}
	servicesKeywords = []string{"service", "offer", "provide", "what do you do"}
	projectKeywords  = []string{"project", "work", "portfolio", "what have you done"}
	contactKeywords  = []string{"contact", "reach", "email", "phone", "get in touch", "hire", "collaborate"}
)

var greetingReplies = []string{
	"Hello! I'm here to help you learn about the portfolio owner. What would you like to know?",
	"Hi there! Feel free to ask me anything about their skills, experience, or services.",
	"Hey! I can answer questions about the portfolio owner's background, skills, and work. What interests you?",
}

var genericReplies = []string{
	"I can help you learn about their background, skills, services, or work. What would you like to know?",
	"Feel free to ask me about their expertise, experience, services, or portfolio projects!",
	"I can answer questions about their skills, services, projects, or background. What interests you?",
}

const (
	noSkillsReply = "I don't have specific skill information available right now, but the portfolio owner has expertise in web development, mobile applications, and UI/UX design."

	noProjectsReply = "I don't have specific project information available right now, but you can check out the Work section to see their portfolio projects."

	servicesReply = `The portfolio owner offers the following services:

1. Web Development - High-quality development of sites at the professional level
2. Mobile Apps - Professional development of applications for iOS and Android
3. UI/UX Design - Modern and mobile-ready website that will help reach all marketing goals
4. Web Design - High-quality development of sites at the professional level

Feel free to ask about any specific service or check out the portfolio section for examples of their work!`

	contactReply = "To get in touch with the portfolio owner, please use the Contact section on the website. You can send them a message directly through the contact form, and they'll get back to you as soon as possible!"

	experienceReply = "The portfolio owner has over 5 years of experience in web development, mobile applications, and UI/UX design. They have worked with various technologies and frameworks to deliver high-quality solutions."

	webDevReply = "Web Development: High-quality development of sites at the professional level. They create professional, high-quality websites using modern technologies and best practices."

	mobileReply = "Mobile Apps: Professional development of applications for iOS and Android. They develop native and cross-platform mobile applications."

	designReply = "UI/UX Design: Modern and mobile-ready website that will help achieve marketing and business goals. They create modern, user-friendly designs."
)

// Responder answers from fixed keyword rules when no remote provider can.
type Responder struct {
	intn func(n int) int
}

// NewResponder uses intn to pick among equivalent phrasings. A nil intn
// falls back to math/rand.
func NewResponder(intn func(n int) int) *Responder {
	if intn == nil {
		intn = rand.IntN
	}
	return &Responder{intn: intn}
}

// Normalize lower-cases and trims text and strips punctuation.
func Normalize(text string) string {
	return punctuation.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "")
}

// Respond classifies message by ordered keyword sets. skills are expected
// strongest first and works newest first.
func (r *Responder) Respond(message string, skills []models.SkillModel, works []models.WorkModel) string {
	text := Normalize(message)
	switch {
	case greetingPattern.MatchString(text):
		return r.pick(greetingReplies)
	case containsAny(text, aboutKeywords):
		return aboutReply(skills, works)
	case containsAny(text, skillsKeywords):
		return skillsReply(skills)
	case containsAny(text, servicesKeywords):
		return servicesReply
	case containsAny(text, projectKeywords):
		return projectsReply(works)
	case containsAny(text, contactKeywords), strings.Contains(text, "how to reach"):
		return contactReply
	case containsAny(text, []string{"experience", "years"}):
		return experienceReply
	case containsAny(text, []string{"web development", "web dev"}):
		return webDevReply
	case containsAny(text, []string{"mobile", "app"}):
		return mobileReply
	case containsAny(text, []string{"ui", "ux", "design"}):
		return designReply
	}
	return r.pick(genericReplies)
}

func (r *Responder) pick(options []string) string {
	i := r.intn(len(options))
	if i < 0 || i >= len(options) {
		i = 0
	}
	return options[i]
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func aboutReply(skills []models.SkillModel, works []models.WorkModel) string {
	names := make([]string, 0, 5)
	for i := 0; i < len(skills) && i < 5; i++ {
		names = append(names, skills[i].Name)
	}
	top := strings.Join(names, ", ")
	if top == "" {
		top = "various modern technologies"
	}
	return "The portfolio owner is a passionate technician with over 5 years of experience in the industry. " +
		"They specialize in web development, mobile applications, and UI/UX design. " +
		fmt.Sprintf("They have worked on %s and are skilled in technologies like %s. ", plural(len(works), "project"), top) +
		"They deliver high-quality solutions using various technologies and frameworks."
}

func skillsReply(skills []models.SkillModel) string {
	if len(skills) == 0 {
		return noSkillsReply
	}
	dev := filterSkills(skills, models.SkillTypeDevelopment, 5)
	design := filterSkills(skills, models.SkillTypeDesign, 5)

	var b strings.Builder
	b.WriteString("Here are the skills:\n\n")
	if len(dev) > 0 {
		b.WriteString("Development Skills:\n")
		for _, s := range dev {
			fmt.Fprintf(&b, "• %s (%d%%)\n", s.Name, s.Percentage)
		}
	}
	if len(design) > 0 {
		b.WriteString("\nDesign Skills:\n")
		for _, s := range design {
			fmt.Fprintf(&b, "• %s (%d%%)\n", s.Name, s.Percentage)
		}
	}
	return strings.TrimSpace(b.String())
}

func projectsReply(works []models.WorkModel) string {
	if len(works) == 0 {
		return noProjectsReply
	}
	var b strings.Builder
	fmt.Fprintf(&b, "They have worked on %s. Here are some examples:\n\n", plural(len(works), "project"))
	for i := 0; i < len(works) && i < 3; i++ {
		w := works[i]
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, w.Title, w.Category)
		if w.Description != "" {
			fmt.Fprintf(&b, "   %s\n", truncate(w.Description, 100))
		}
		b.WriteString("\n")
	}
	b.WriteString("You can view more details about these projects in the Work section of the portfolio!")
	return b.String()
}

// filterSkills keeps up to limit skills of type t, in input order. limit <= 0 keeps all.
func filterSkills(skills []models.SkillModel, t models.SkillType, limit int) []models.SkillModel {
	out := make([]models.SkillModel, 0, len(skills))
	for _, s := range skills {
		if s.Type != t {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
