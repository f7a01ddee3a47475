// Package report renders a printable PDF character sheet for a player.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/csquest/api/internal/catalog"
	"github.com/csquest/api/internal/csquest"
)

const (
	pageW     = 595
	margin    = 40
	lineH     = 14
	titleSize = 20
	headSize  = 12
	fontSize  = 10
)

// Sheet is the content of a character sheet.
type Sheet struct {
	Snapshot csquest.Snapshot
	Attack   int
	Defense  int
}

// Write renders the sheet as a single A4 PDF. Catalog names are used for
// achievements and quests; unknown ids are printed as-is.
func Write(w io.Writer, sheet Sheet, cat *catalog.Catalog) error {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle("CSQuest character sheet", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	snap := sheet.Snapshot
	ps := snap.PlayerStats

	pdf.SetFillColor(40, 44, 52)
	pdf.Rect(0, 0, pageW, 80, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(margin, 28)
	pdf.CellFormat(pageW-2*margin, 24, tr(ps.Username), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", fontSize)
	pdf.SetX(margin)
	pdf.CellFormat(pageW-2*margin, lineH, tr(fmt.Sprintf("Level %d %s", ps.Level, ps.Character)), "", 1, "L", false, 0, "")
	pdf.SetTextColor(30, 30, 30)
	pdf.SetY(100)

	section(pdf, "Stats")
	rows := [][2]string{
		{"Experience", fmt.Sprintf("%d", ps.Experience)},
		{"Coins", fmt.Sprintf("%d", ps.Coins)},
		{"Health", fmt.Sprintf("%d / %d", ps.Health, ps.MaxHealth)},
		{"Mana", fmt.Sprintf("%d / %d", ps.Mana, ps.MaxMana)},
		{"Attack", fmt.Sprintf("%d", sheet.Attack)},
		{"Defense", fmt.Sprintf("%d", sheet.Defense)},
		{"Battles won", fmt.Sprintf("%d", snap.Stats.BattlesWon)},
		{"Questions correct", fmt.Sprintf("%d", snap.Stats.QuestionsCorrect)},
		{"Coins earned", fmt.Sprintf("%d", snap.Stats.CoinsEarned)},
		{"Items collected", fmt.Sprintf("%d", snap.Stats.ItemsCollected)},
	}
	for _, r := range rows {
		pair(pdf, r[0], r[1])
	}

	section(pdf, "Equipment")
	for _, slot := range []csquest.Slot{csquest.SlotWeapon, csquest.SlotArmor} {
		name := "-"
		if it, ok := snap.EquippedItem(slot); ok {
			name = it.Name
		}
		pair(pdf, strings.ToUpper(string(slot[:1]))+string(slot[1:]), tr(name))
	}

	section(pdf, "Inventory")
	if len(snap.Inventory) == 0 {
		line(pdf, "Empty")
	}
	for _, it := range snap.Inventory {
		text := fmt.Sprintf("%s (%s)", it.Name, it.Category)
		if it.Category == csquest.CategoryConsumable {
			text = fmt.Sprintf("%s x%d", text, it.Quantity)
		}
		line(pdf, tr(text))
	}

	section(pdf, "Pets")
	for _, p := range snap.Pets {
		status := "locked"
		if p.Unlocked {
			status = fmt.Sprintf("level %d", p.Level)
		}
		if p.ID == snap.ActivePet {
			status += ", active"
		}
		pair(pdf, tr(p.Name), status)
	}

	section(pdf, "Achievements")
	if len(snap.Achievements) == 0 {
		line(pdf, "None yet")
	}
	for _, id := range snap.Achievements {
		line(pdf, tr(achievementName(cat, id)))
	}

	section(pdf, "Completed quests")
	if len(snap.CompletedQuests) == 0 {
		line(pdf, "None yet")
	}
	for _, id := range snap.CompletedQuests {
		name := id
		if q, ok := cat.Quest(id); ok {
			name = q.Title
		}
		line(pdf, tr(name))
	}

	return pdf.Output(w)
}

func achievementName(cat *catalog.Catalog, id string) string {
	for _, a := range cat.Achievements {
		if a.ID == id {
			return a.Name
		}
	}
	return id
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", headSize)
	pdf.SetDrawColor(180, 180, 180)
	pdf.CellFormat(pageW-2*margin, lineH+4, title, "B", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", fontSize)
}

func pair(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.CellFormat(140, lineH, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", fontSize)
	pdf.CellFormat(pageW-2*margin-140, lineH, value, "", 1, "L", false, 0, "")
}

func line(pdf *gofpdf.Fpdf, text string) {
	pdf.CellFormat(pageW-2*margin, lineH, text, "", 1, "L", false, 0, "")
}
