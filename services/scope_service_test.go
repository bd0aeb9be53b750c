package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pgmanager-backend/models"
)

func uintPtr(v uint) *uint { return &v }

func TestScopeRooms(t *testing.T) {
	rooms := []models.Room{
		{ID: 1, PGName: "Sunrise PG", Capacity: 2, Occupancy: 2},
		{ID: 2, PGName: "Moonlight PG", Capacity: 3, Occupancy: 1},
		{ID: 3, PGName: "Sunrise PG"},
		{ID: 4, PGName: ""},
	}

	t.Run("manager sees only their PG, order preserved", func(t *testing.T) {
		scoped := ScopeRooms(rooms, "Sunrise PG")
		assert.Len(t, scoped, 2)
		assert.Equal(t, uint(1), scoped[0].ID)
		assert.Equal(t, uint(3), scoped[1].ID)
	})

	t.Run("admin sees everything unfiltered", func(t *testing.T) {
		scoped := ScopeRooms(rooms, "")
		assert.Equal(t, rooms, scoped)
	})

	t.Run("rooms without a PG name are hidden from every manager", func(t *testing.T) {
		for _, pg := range []string{"Sunrise PG", "Moonlight PG"} {
			for _, room := range ScopeRooms(rooms, pg) {
				assert.NotEqual(t, uint(4), room.ID)
			}
		}
	})

	t.Run("unknown PG yields empty, not nil panic", func(t *testing.T) {
		assert.Empty(t, ScopeRooms(rooms, "Nowhere PG"))
	})
}

func TestScopeResidents(t *testing.T) {
	rooms := []models.Room{
		{ID: 1, PGName: "Sunrise PG"},
		{ID: 2, PGName: "Moonlight PG"},
	}
	residents := []models.Resident{
		{ID: 10, RoomID: uintPtr(1)},
		{ID: 11, RoomID: uintPtr(2)},
		{ID: 12, RoomID: nil},
		{ID: 13, RoomID: uintPtr(1)},
	}

	scoped := ScopeResidents(residents, rooms, "Sunrise PG")
	assert.Len(t, scoped, 2)
	assert.Equal(t, uint(10), scoped[0].ID)
	assert.Equal(t, uint(13), scoped[1].ID)

	// Unassigned residents stay visible to admins only.
	assert.Len(t, ScopeResidents(residents, rooms, ""), 4)
	for _, r := range ScopeResidents(residents, rooms, "Moonlight PG") {
		assert.NotNil(t, r.RoomID)
	}
}

func TestScopeReadings(t *testing.T) {
	rooms := []models.Room{{ID: 1, PGName: "Sunrise PG"}, {ID: 2, PGName: "Moonlight PG"}}
	readings := []models.ElectricityReading{
		{ID: 100, RoomID: uintPtr(1)},
		{ID: 101, RoomID: uintPtr(2)},
		{ID: 102, RoomID: nil},
	}

	scoped := ScopeReadings(readings, rooms, "Sunrise PG")
	assert.Len(t, scoped, 1)
	assert.Equal(t, uint(100), scoped[0].ID)
	assert.Len(t, ScopeReadings(readings, rooms, ""), 3)
}

func TestScopeBills(t *testing.T) {
	residents := []models.Resident{{ID: 10}, {ID: 11}}
	bills := []models.Bill{
		{ID: 200, ResidentID: 10},
		{ID: 201, ResidentID: 99},
		{ID: 202, ResidentID: 11},
	}

	scoped := ScopeBills(bills, residents, "Sunrise PG")
	assert.Len(t, scoped, 2)
	assert.Equal(t, uint(200), scoped[0].ID)
	assert.Equal(t, uint(202), scoped[1].ID)

	assert.Len(t, ScopeBills(bills, nil, ""), 3)
}

func TestScopeBillsByRoom(t *testing.T) {
	rooms := []models.Room{{ID: 1, PGName: "Sunrise PG"}, {ID: 2, PGName: "Moonlight PG"}}
	bills := []models.Bill{
		{ID: 200, RoomID: uintPtr(1)},
		{ID: 201, RoomID: uintPtr(2)},
		{ID: 202, RoomID: nil},
	}

	scoped := ScopeBillsByRoom(bills, rooms, "Sunrise PG")
	assert.Len(t, scoped, 1)
	assert.Equal(t, uint(200), scoped[0].ID)
}
