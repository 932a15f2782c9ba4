package models

// StudentRef is the canonical student shape embedded in complaints and
// apologies. The legacy backend produced several nested variants
// (student.user.name, student.name, bare name fields); ingestion collapses
// them all into this one type so downstream code never chases optionals.
type StudentRef struct {
	ID     string `db:"student_id" json:"id"`
	Name   string `db:"student_name" json:"name"`
	RoomNo string `db:"student_room_no" json:"roomNo"`
	Block  string `db:"student_block" json:"block"`
}
