package chat

import (
	"fmt"
	"strings"

	"github.com/shagor/portfolio-core/internal/models"
)

const personaPrompt = `You are a helpful AI assistant representing a portfolio website owner.
You help visitors learn about the portfolio owner. Here's what you know:

About the Portfolio Owner:
- They are a passionate technician with expertise in web development, mobile applications, and UI/UX design
- They have over 5 years of experience in the industry
- They work with various technologies and frameworks to deliver high-quality solutions

Services Offered:
1. Web Development - High-quality development of sites at the professional level
2. Mobile Apps - Professional development of applications for iOS and Android
3. UI/UX Design - Modern and mobile-ready website that will help reach all marketing goals
4. Web Design - High-quality development of sites at the professional level`

const rolePrompt = `

Your role:
- Answer questions about the portfolio owner's skills, experience, services, and projects
- Use the specific skills and projects listed above when relevant
- Be friendly, professional, and helpful
- If asked about something you don't know, politely say you don't have that information
- Keep responses concise and informative (2-4 sentences typically)
- Direct users to the contact section if they want to reach out directly
- Reference specific projects and skills when they're relevant to the question

Always be helpful and maintain a professional yet friendly tone.`

// BuildSystemPrompt embeds the live skills and projects into the persona.
func BuildSystemPrompt(skills []models.SkillModel, works []models.WorkModel) string {
	var b strings.Builder
	b.WriteString(personaPrompt)

	dev := filterSkills(skills, models.SkillTypeDevelopment, 0)
	design := filterSkills(skills, models.SkillTypeDesign, 0)
	if len(dev) > 0 {
		b.WriteString("\n\nDevelopment Skills:\n")
		for _, s := range dev {
			fmt.Fprintf(&b, "- %s (%d%% proficiency)\n", s.Name, s.Percentage)
		}
	}
	if len(design) > 0 {
		b.WriteString("\nDesign Skills:\n")
		for _, s := range design {
			fmt.Fprintf(&b, "- %s (%d%% proficiency)\n", s.Name, s.Percentage)
		}
	}

	if len(works) > 0 {
		b.WriteString("\n\nPortfolio Projects:\n")
		for i, w := range works {
			fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, w.Title, w.Category)
			if w.Description != "" {
				fmt.Fprintf(&b, "   Description: %s\n", truncate(w.Description, 150))
			}
			fmt.Fprintf(&b, "   Likes: %d\n\n", w.Likes)
		}
	}

	b.WriteString(rolePrompt)
	return b.String()
}

// recentTurns keeps the last historyLimit well-formed turns.
func recentTurns(history []Turn) []Turn {
	out := make([]Turn, 0, len(history))
	for _, t := range history {
		role := strings.ToLower(strings.TrimSpace(t.Role))
		if (role != RoleUser && role != RoleAssistant) || strings.TrimSpace(t.Content) == "" {
			continue
		}
		out = append(out, Turn{Role: role, Content: t.Content})
	}
	if len(out) > historyLimit {
		out = out[len(out)-historyLimit:]
	}
	return out
}
