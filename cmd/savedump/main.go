// Command savedump lists recorded saves and prints the brittle-floor
// progress stored in them.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gookit/color"

	"github.com/samdwyer/brittlefloor/internal/config"
	"github.com/samdwyer/brittlefloor/internal/floor"
	"github.com/samdwyer/brittlefloor/internal/savefile"
)

var (
	colorHeader = color.Style{color.FgCyan, color.OpBold}
	colorOn     = color.Style{color.FgGreen, color.OpBold}
	colorOff    = color.Style{color.FgGray}
	colorWarn   = color.Style{color.FgRed, color.OpBold}
)

func main() {
	configPath := flag.String("config", os.Getenv("BRITTLEFLOOR_CONFIG"), "YAML config file")
	dbPath := flag.String("db", "", "slot database (overrides config)")
	all := flag.Bool("all", false, "dump every save, not just the latest")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.SlotDB = *dbPath
	}

	slots, err := savefile.OpenSlots(cfg.SlotDB)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer slots.Close()

	list, err := slots.List(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "list:", err)
		os.Exit(1)
	}
	if len(list) == 0 {
		fmt.Println("no saves")
		return
	}
	if !*all {
		list = list[:1]
	}
	for _, slot := range list {
		dumpSlot(os.Stdout, slot)
	}
}

func dumpSlot(w io.Writer, slot savefile.Slot) {
	fmt.Fprintln(w, colorHeader.Sprintf("%s  map %d  %s", slot.ID, slot.MapID, slot.SavedAt.Format("2006-01-02 15:04:05")))

	env, err := savefile.Read(slot.Path)
	if err != nil {
		fmt.Fprintln(w, colorWarn.Sprintf("  unreadable: %v", err))
		return
	}
	fmt.Fprintf(w, "  player (%d,%d)  switches %v\n", env.Player.X, env.Player.Y, env.Switches)

	data, err := floor.DecodeSaveData(env.Plugins[floor.SaveKey])
	if err != nil {
		fmt.Fprintln(w, colorWarn.Sprintf("  floor data invalid: %v", err))
		return
	}
	dumpFloor(w, data)
}

func dumpFloor(w io.Writer, data floor.SaveData) {
	ids := make([]int, 0, len(data.Maps))
	for id := range data.Maps {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	if len(ids) == 0 {
		fmt.Fprintln(w, colorOff.Sprint("  no brittle floors configured"))
		return
	}

	for _, id := range ids {
		cfg := data.Maps[id]
		if cfg == nil {
			continue
		}
		fmt.Fprintf(w, "  map %-3d %s  regions %d  changed %d  all %s  special %s  fixed %s\n",
			id,
			mark(cfg.Enabled, "enabled", "disabled"),
			len(cfg.Entries),
			len(data.TileDiff[id]),
			mark(data.AllCompleted[id], "yes", "no"),
			mark(data.LastSpecial[id], "yes", "no"),
			mark(data.TilesFixed[id], "yes", "no"),
		)
	}
}

func mark(on bool, yes, no string) string {
	if on {
		return colorOn.Sprint(yes)
	}
	return colorOff.Sprint(no)
}
