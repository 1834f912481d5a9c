package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/ngmaloney/coastal-activities/internal/stations"
)

// stationItem wraps a TideStationInfo for use in a list
type stationItem struct {
	station stations.TideStationInfo
}

// FilterValue implements list.Item
func (s stationItem) FilterValue() string {
	return s.station.ID + " " + s.station.Name
}

// Title implements list.DefaultItem
func (s stationItem) Title() string {
	return fmt.Sprintf("%s - %s", s.station.ID, s.station.Name)
}

// Description implements list.DefaultItem
func (s stationItem) Description() string {
	return fmt.Sprintf("%.1f miles away", s.station.Distance)
}

// createStationList creates a list.Model from station info
func createStationList(found []stations.TideStationInfo, width, height int) list.Model {
	items := make([]list.Item, len(found))
	for i, s := range found {
		items[i] = stationItem{station: s}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Select a Tide Station"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)

	return l
}
