// Command terrainprobe generates chunk ranges offline and records per-chunk
// statistics into a SQLite database, then answers aggregate queries over it.
// It exists for tuning: sweep a few seeds, eyeball the numbers, adjust the
// YAML, repeat.
//
//	terrainprobe generate -db probe.sqlite -seeds 1,2,3 -from -10 -count 40
//	terrainprobe stats -db probe.sqlite
//	terrainprobe outliers -db probe.sqlite -limit 10
package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"dustrunner/internal/physics"
	"dustrunner/internal/sim/tuning"
	"dustrunner/internal/sim/world"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "generate":
		generateCmd(os.Args[2:])
	case "stats":
		statsCmd(os.Args[2:])
	case "outliers":
		outliersCmd(os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: terrainprobe generate|stats|outliers [flags]")
	os.Exit(2)
}

const schema = `
CREATE TABLE IF NOT EXISTS chunk_stats (
	seed       INTEGER NOT NULL,
	chunk_idx  INTEGER NOT NULL,
	samples    INTEGER NOT NULL,
	min_y      REAL NOT NULL,
	max_y      REAL NOT NULL,
	mean_y     REAL NOT NULL,
	obstacles  INTEGER NOT NULL,
	spawns     INTEGER NOT NULL,
	bodies     INTEGER NOT NULL,
	gen_micros INTEGER NOT NULL,
	PRIMARY KEY (seed, chunk_idx)
);`

func openDB(path string) *sql.DB {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	if _, err := db.Exec(schema); err != nil {
		fmt.Fprintln(os.Stderr, "schema:", err)
		os.Exit(1)
	}
	return db
}

func generateCmd(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	dbPath := fs.String("db", "probe.sqlite", "sqlite db path")
	configPath := fs.String("config", "", "terrain tuning YAML (defaults when empty)")
	seeds := fs.String("seeds", "12345", "comma-separated seeds")
	from := fs.Int64("from", 0, "first chunk index")
	count := fs.Int64("count", 50, "number of chunks per seed")
	_ = fs.Parse(args)

	opts := tuning.Defaults()
	if *configPath != "" {
		var err error
		opts, err = tuning.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	db := openDB(*dbPath)
	defer db.Close()

	ins, err := db.Prepare(`INSERT OR REPLACE INTO chunk_stats
		(seed,chunk_idx,samples,min_y,max_y,mean_y,obstacles,spawns,bodies,gen_micros)
		VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		fmt.Fprintln(os.Stderr, "prepare:", err)
		os.Exit(1)
	}
	defer ins.Close()

	total := 0
	for _, s := range strings.Split(*seeds, ",") {
		seed, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad seed:", s)
			os.Exit(2)
		}
		o := opts
		o.Seed = seed
		factory := world.NewFactory(o, physics.NewStaticWorld(), nil)

		for idx := *from; idx < *from+*count; idx++ {
			start := time.Now()
			c := factory.Build(idx, 0)
			genMicros := time.Since(start).Microseconds()

			minY, maxY, sum := c.Heights[0].Y, c.Heights[0].Y, 0.0
			for _, h := range c.Heights {
				if h.Y < minY {
					minY = h.Y
				}
				if h.Y > maxY {
					maxY = h.Y
				}
				sum += h.Y
			}
			bodies := len(c.TerrainBodies) + len(c.ObstacleBodies)
			if _, err := ins.Exec(seed, idx, len(c.Heights), minY, maxY, sum/float64(len(c.Heights)),
				len(c.Obstacles), len(c.SpawnPoints), bodies, genMicros); err != nil {
				fmt.Fprintln(os.Stderr, "insert:", err)
				os.Exit(1)
			}
			total++
		}
	}
	fmt.Printf("recorded %d chunks into %s\n", total, *dbPath)
}

func statsCmd(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	dbPath := fs.String("db", "probe.sqlite", "sqlite db path")
	_ = fs.Parse(args)

	db := openDB(*dbPath)
	defer db.Close()

	rows, err := db.Query(`SELECT seed, COUNT(*), MIN(min_y), MAX(max_y), AVG(mean_y),
		AVG(obstacles), AVG(spawns), AVG(gen_micros)
		FROM chunk_stats GROUP BY seed ORDER BY seed`)
	if err != nil {
		fmt.Fprintln(os.Stderr, "query:", err)
		os.Exit(1)
	}
	defer rows.Close()

	for rows.Next() {
		var r struct {
			Seed         int64   `json:"seed"`
			Chunks       int     `json:"chunks"`
			MinY         float64 `json:"min_y"`
			MaxY         float64 `json:"max_y"`
			AvgMeanY     float64 `json:"avg_mean_y"`
			AvgObstacles float64 `json:"avg_obstacles"`
			AvgSpawns    float64 `json:"avg_spawns"`
			AvgGenMicros float64 `json:"avg_gen_micros"`
		}
		if err := rows.Scan(&r.Seed, &r.Chunks, &r.MinY, &r.MaxY, &r.AvgMeanY,
			&r.AvgObstacles, &r.AvgSpawns, &r.AvgGenMicros); err != nil {
			fmt.Fprintln(os.Stderr, "scan:", err)
			os.Exit(1)
		}
		printJSON(r)
	}
	if err := rows.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "rows:", err)
		os.Exit(1)
	}
}

func outliersCmd(args []string) {
	fs := flag.NewFlagSet("outliers", flag.ExitOnError)
	dbPath := fs.String("db", "probe.sqlite", "sqlite db path")
	limit := fs.Int("limit", 10, "result limit")
	_ = fs.Parse(args)

	db := openDB(*dbPath)
	defer db.Close()

	// Chunks with the steepest internal relief, the usual suspects when the
	// vehicle launches unexpectedly.
	rows, err := db.Query(`SELECT seed, chunk_idx, max_y - min_y AS relief, obstacles, spawns, gen_micros
		FROM chunk_stats ORDER BY relief DESC LIMIT ?`, *limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "query:", err)
		os.Exit(1)
	}
	defer rows.Close()

	for rows.Next() {
		var r struct {
			Seed      int64   `json:"seed"`
			ChunkIdx  int64   `json:"chunk_idx"`
			Relief    float64 `json:"relief"`
			Obstacles int     `json:"obstacles"`
			Spawns    int     `json:"spawns"`
			GenMicros int64   `json:"gen_micros"`
		}
		if err := rows.Scan(&r.Seed, &r.ChunkIdx, &r.Relief, &r.Obstacles, &r.Spawns, &r.GenMicros); err != nil {
			fmt.Fprintln(os.Stderr, "scan:", err)
			os.Exit(1)
		}
		printJSON(r)
	}
	if err := rows.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "rows:", err)
		os.Exit(1)
	}
}

func printJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal:", err)
		os.Exit(1)
	}
	fmt.Println(string(b))
}
