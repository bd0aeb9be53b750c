package services

import "pgmanager-backend/models"

// Manager scoping. A manager only sees rows belonging to their assigned PG;
// an empty pgName means the caller is an administrator and nothing is
// filtered. These are plain slice filters so the HTTP layer can apply them
// to whatever it fetched; relative order of the input is preserved.

// ScopeRooms keeps rooms whose PG name matches exactly. Rooms with an empty
// PG name belong to no manager and only administrators see them.
func ScopeRooms(rooms []models.Room, pgName string) []models.Room {
	if pgName == "" {
		return rooms
	}
	scoped := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.PGName == pgName {
			scoped = append(scoped, room)
		}
	}
	return scoped
}

// RoomIDSet collects the ids of the given rooms, used to scope the tables
// that reference rooms.
func RoomIDSet(rooms []models.Room) map[uint]struct{} {
	ids := make(map[uint]struct{}, len(rooms))
	for _, room := range rooms {
		ids[room.ID] = struct{}{}
	}
	return ids
}

// ScopeResidents keeps residents housed in one of the manager's rooms.
// Residents with no room assignment never appear in a manager's view.
func ScopeResidents(residents []models.Resident, rooms []models.Room, pgName string) []models.Resident {
	if pgName == "" {
		return residents
	}
	roomIDs := RoomIDSet(ScopeRooms(rooms, pgName))
	scoped := make([]models.Resident, 0, len(residents))
	for _, r := range residents {
		if r.RoomID == nil {
			continue
		}
		if _, ok := roomIDs[*r.RoomID]; ok {
			scoped = append(scoped, r)
		}
	}
	return scoped
}

// ScopeReadings keeps electricity readings taken in the manager's rooms.
func ScopeReadings(readings []models.ElectricityReading, rooms []models.Room, pgName string) []models.ElectricityReading {
	if pgName == "" {
		return readings
	}
	roomIDs := RoomIDSet(ScopeRooms(rooms, pgName))
	scoped := make([]models.ElectricityReading, 0, len(readings))
	for _, reading := range readings {
		if reading.RoomID == nil {
			continue
		}
		if _, ok := roomIDs[*reading.RoomID]; ok {
			scoped = append(scoped, reading)
		}
	}
	return scoped
}

// ScopeBills keeps bills issued to one of the given residents. The resident
// slice is expected to be already scoped; this is the primary billing path.
func ScopeBills(bills []models.Bill, residents []models.Resident, pgName string) []models.Bill {
	if pgName == "" {
		return bills
	}
	residentIDs := make(map[uint]struct{}, len(residents))
	for _, r := range residents {
		residentIDs[r.ID] = struct{}{}
	}
	scoped := make([]models.Bill, 0, len(bills))
	for _, b := range bills {
		if _, ok := residentIDs[b.ResidentID]; ok {
			scoped = append(scoped, b)
		}
	}
	return scoped
}

// ScopeBillsByRoom is the alternate billing path for bills that carry a
// room reference directly.
func ScopeBillsByRoom(bills []models.Bill, rooms []models.Room, pgName string) []models.Bill {
	if pgName == "" {
		return bills
	}
	roomIDs := RoomIDSet(ScopeRooms(rooms, pgName))
	scoped := make([]models.Bill, 0, len(bills))
	for _, b := range bills {
		if b.RoomID == nil {
			continue
		}
		if _, ok := roomIDs[*b.RoomID]; ok {
			scoped = append(scoped, b)
		}
	}
	return scoped
}
