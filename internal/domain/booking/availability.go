package booking

// AvailableSlot is one slot occurrence on a requested date.
type AvailableSlot struct {
	SlotID       uint   `json:"slotId"`
	DisplayStart string `json:"displayStart"`
	DisplayEnd   string `json:"displayEnd"`
	IsBooked     bool   `json:"isBooked"`
}
