package assistant

import "strings"

// TechContext carries the technology a conversation is anchored on. Either
// field may be empty; templates fall back to neutral wording.
type TechContext struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

func (t TechContext) title() string {
	if t.Title == "" {
		return "this technology"
	}
	return t.Title
}

func (t TechContext) category() string {
	if t.Category == "" {
		return "the tech space"
	}
	return t.Category
}

// Intent classifies a user message by keyword
type Intent string

const (
	IntentGeneral       Intent = "general"
	IntentCreateProject Intent = "create_project"
	IntentDraftMVP      Intent = "draft_mvp"
)

// DetectIntent matches the action keywords the client acts on
func DetectIntent(content string) Intent {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "create a project") || strings.Contains(lower, "start a project"):
		return IntentCreateProject
	case strings.Contains(lower, "draft mvp") || strings.Contains(lower, "mvp document"):
		return IntentDraftMVP
	default:
		return IntentGeneral
	}
}

// PickReply selects a canned reply deterministically. The same turn number in
// the same kind of conversation always produces the same reply; successive
// turns rotate through the template set.
func PickReply(tech TechContext, projectContext bool, turn int) string {
	templates := ideaTemplates
	if projectContext {
		templates = projectTemplates
	}
	if turn < 0 {
		turn = 0
	}
	return templates[turn%len(templates)](tech)
}

// PickSuggestions returns follow-up prompts for the reply
func PickSuggestions(projectContext bool) []string {
	if projectContext {
		return []string{
			"Draft MVP documentation",
			"Plan next development phase",
			"Review technical architecture",
			"Prepare for investor pitch",
			"Set up testing strategy",
			"Finalize project details",
		}
	}
	return []string{
		"Tell me more about the technical architecture",
		"What should my MVP features be?",
		"Help me create a development timeline",
		"How do I validate this idea?",
	}
}

var ideaTemplates = []func(TechContext) string{
	func(t TechContext) string {
		return "Great idea! Based on your interest in " + t.title() + ", I can see several exciting possibilities. Let me break down a potential MVP approach:\n\n" +
			"**Core Features:**\n" +
			"- User authentication and onboarding\n" +
			"- Main functionality leveraging " + t.category() + "\n" +
			"- Dashboard for user management\n" +
			"- Basic analytics and reporting\n\n" +
			"**Technical Stack Recommendation:**\n" +
			"- Frontend: React with TypeScript\n" +
			"- Backend: Node.js with Express\n" +
			"- Database: PostgreSQL for structured data\n" +
			"- Deployment: Vercel or AWS\n\n" +
			"Would you like me to dive deeper into any of these areas or explore different platform options?"
	},
	func(t TechContext) string {
		return "Excellent choice! This type of project has strong market potential. Here's how we can structure your development approach:\n\n" +
			"**Phase 1 - MVP (2-4 weeks):**\n" +
			"- Core user flow implementation\n" +
			"- Basic UI/UX with essential features\n" +
			"- User feedback collection system\n\n" +
			"**Phase 2 - Enhancement (4-6 weeks):**\n" +
			"- Advanced features and integrations\n" +
			"- Performance optimization\n" +
			"- Mobile responsiveness\n\n" +
			"**Phase 3 - Scale (6-8 weeks):**\n" +
			"- Advanced analytics\n" +
			"- Enterprise features\n" +
			"- API development\n\n" +
			"What specific features are most important for your target users?"
	},
	func(t TechContext) string {
		return "I love the direction you're thinking! Let's refine this concept further:\n\n" +
			"**Market Opportunity:**\n" +
			"This aligns well with current trends in " + t.category() + ". The target market shows strong demand for focused solutions.\n\n" +
			"**Unique Value Proposition:**\n" +
			"Your app could differentiate by solving one core problem extremely well while leveraging " + t.title() + ".\n\n" +
			"**Go-to-Market Strategy:**\n" +
			"- Start with a specific user segment\n" +
			"- Build in public to generate buzz\n" +
			"- Focus on solving one core problem extremely well\n\n" +
			"Should we explore the technical architecture or dive into business model considerations?"
	},
}

var projectTemplates = []func(TechContext) string{
	func(t TechContext) string {
		return "Great to continue our work on " + t.title() + "! Based on our previous discussions, I can see we've made good progress. Let me help you with the next phase of development.\n\n" +
			"**Current Status Review:**\n" +
			"- Project foundation is established\n" +
			"- Core requirements have been defined\n" +
			"- Technical stack decisions are in place\n\n" +
			"**Next Development Steps:**\n" +
			"- Implement core features\n" +
			"- Set up testing framework\n" +
			"- Prepare for deployment\n" +
			"- Document API specifications\n\n" +
			"What specific aspect would you like to focus on next?"
	},
	func(t TechContext) string {
		return "Welcome back! I can see we're continuing development on your " + t.title() + " project. Let me help you move forward with the implementation.\n\n" +
			"**Development Priorities:**\n" +
			"- Complete remaining core features\n" +
			"- Implement user feedback from testing\n" +
			"- Optimize performance and scalability\n" +
			"- Prepare production deployment\n\n" +
			"**Available Actions:**\n" +
			"- Draft comprehensive MVP documentation\n" +
			"- Plan next sprint activities\n" +
			"- Review technical architecture\n" +
			"- Connect with potential investors\n\n" +
			"Which area needs your attention first?"
	},
	func(t TechContext) string {
		return "Excellent! Let's continue building your " + t.title() + " solution. I have our conversation history and can help you progress to the next milestone.\n\n" +
			"**Project Momentum:**\n" +
			"- Strong technical foundation established\n" +
			"- Clear product vision defined\n" +
			"- Development roadmap in progress\n\n" +
			"**Immediate Opportunities:**\n" +
			"- Finalize MVP documentation\n" +
			"- Complete project technical details\n" +
			"- Prepare for investor presentations\n" +
			"- Plan user testing strategy\n\n" +
			"What would you like to tackle in this session?"
	},
}

// RenderMVPDraft produces the full MVP planning document for a technology
func RenderMVPDraft(tech TechContext) string {
	return "# MVP Development Plan\n\n" +
		"## Executive Summary\n" +
		"This document outlines the Minimum Viable Product (MVP) development plan for a " + tech.category() + " solution leveraging " + tech.title() + ".\n\n" +
		"## Problem Statement\n" +
		"Based on our discussion, we identified key market opportunities in the " + tech.category() + " space that can be addressed through innovative product development.\n\n" +
		"## Solution Overview\n" +
		"Our MVP will focus on delivering core functionality that solves the primary user pain points while demonstrating the potential of " + tech.title() + ".\n\n" +
		"## Target Market\n" +
		"- Primary users: Early adopters in the " + tech.category() + " space\n" +
		"- Market size: Growing demand for innovative solutions\n" +
		"- User personas: Tech-savvy professionals and businesses\n\n" +
		"## Core Features (MVP Scope)\n" +
		"1. **User Management**: Registration, authentication, and profile management\n" +
		"2. **Core Functionality**: Primary feature set leveraging " + tech.title() + "\n" +
		"3. **Dashboard**: User interface for monitoring and management\n" +
		"4. **Basic Analytics**: Essential metrics and reporting\n" +
		"5. **Mobile Support**: Responsive design for mobile devices\n\n" +
		"## Technical Architecture\n" +
		"- **Frontend**: React with TypeScript for type safety and maintainability\n" +
		"- **Backend**: Node.js with Express for scalable API development\n" +
		"- **Database**: PostgreSQL for reliable data storage\n" +
		"- **Authentication**: JWT-based authentication system\n" +
		"- **Deployment**: Cloud-based deployment with CI/CD pipeline\n\n" +
		"## Development Phases\n" +
		"### Phase 1 (Weeks 1-3): Foundation\n" +
		"- Project setup and architecture\n" +
		"- User authentication system\n" +
		"- Basic UI/UX implementation\n\n" +
		"### Phase 2 (Weeks 4-6): Core Features\n" +
		"- Primary functionality development\n" +
		"- Database integration\n" +
		"- API development\n\n" +
		"### Phase 3 (Weeks 7-8): Polish & Deploy\n" +
		"- Testing and bug fixes\n" +
		"- Performance optimization\n" +
		"- Production deployment\n\n" +
		"## Success Metrics\n" +
		"- User acquisition rate\n" +
		"- Feature adoption\n" +
		"- Performance benchmarks\n" +
		"- User feedback scores\n\n" +
		"## Risk Assessment\n" +
		"- Technical challenges with " + tech.title() + "\n" +
		"- Market competition\n" +
		"- Resource constraints\n" +
		"- Timeline dependencies\n\n" +
		"## Next Steps\n" +
		"1. Finalize technical specifications\n" +
		"2. Set up development environment\n" +
		"3. Begin Phase 1 development\n" +
		"4. Establish testing protocols\n\n" +
		"This MVP plan provides a solid foundation for building a successful product while maintaining focus on core value delivery."
}
