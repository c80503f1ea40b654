package models

// Board identifies a Trello board. Two boards are the same board when their ids match.
type Board struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (b Board) Equal(other Board) bool {
	return b.ID == other.ID
}

type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Card struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"idMembers"`
}

type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
