package domain

// StatusPresentation is the display metadata clients render for a status.
type StatusPresentation struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Presentation returns display metadata for the technique status. Every
// status has a case; the zero value is returned only for unknown input.
func (s TechniqueStatus) Presentation() StatusPresentation {
	switch s {
	case TechniqueStudying:
		return StatusPresentation{Label: "Em Estudo", Icon: "book-open", Color: "blue"}
	case TechniqueMastered:
		return StatusPresentation{Label: "Dominada", Icon: "check-circle", Color: "green"}
	case TechniqueReview:
		return StatusPresentation{Label: "Revisar", Icon: "clock", Color: "yellow"}
	}
	return StatusPresentation{}
}

// Presentation returns display metadata for the goal status.
func (s GoalStatus) Presentation() StatusPresentation {
	switch s {
	case GoalInProgress:
		return StatusPresentation{Label: "Em Andamento", Icon: "clock", Color: "blue"}
	case GoalCompleted:
		return StatusPresentation{Label: "Concluída", Icon: "check-circle", Color: "green"}
	case GoalCancelled:
		return StatusPresentation{Label: "Cancelada", Icon: "x-circle", Color: "gray"}
	}
	return StatusPresentation{}
}
