package cli

import (
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/bytemut/internal/corpusdb"
	"github.com/calvinalkan/bytemut/internal/dictfile"
	"github.com/calvinalkan/bytemut/pkg/bytemut"
)

// addResourceFlags registers the flags shared by mutate and gen.
func addResourceFlags(fs *flag.FlagSet) {
	fs.StringP("dict", "d", "", "Token dictionary `file` (overrides config dictionary)")
	fs.Bool("corpus", false, "Resample and splice from the configured corpus db")
	fs.String("corpus-db", "", "Corpus db `path`; implies --corpus")
	fs.Uint64("seed", 0, "PRNG seed (0 = random)")
}

type resources struct {
	dict   *bytemut.Dictionary
	corpus *bytemut.Corpus
	seed   uint64
}

// loadResources resolves dictionary, corpus and seed from flags over config.
func loadResources(e *env, fs *flag.FlagSet) (resources, error) {
	var res resources

	dictPath := e.cfg.DictionaryAbs
	if fs.Changed("dict") {
		dictPath, _ = fs.GetString("dict")
		dictPath = e.cfg.Abs(dictPath)
	}

	if dictPath != "" {
		d, err := dictfile.Load(dictPath)
		if err != nil {
			return resources{}, err
		}

		res.dict = d
	}

	useCorpus, _ := fs.GetBool("corpus")

	dbPath := e.cfg.CorpusDBAbs
	if fs.Changed("corpus-db") {
		dbPath, _ = fs.GetString("corpus-db")
		dbPath = e.cfg.Abs(dbPath)
		useCorpus = true
	}

	if useCorpus {
		c, err := loadCorpus(dbPath)
		if err != nil {
			return resources{}, err
		}

		res.corpus = c
	}

	res.seed = e.cfg.Seed
	if fs.Changed("seed") {
		res.seed, _ = fs.GetUint64("seed")
	}

	return res, nil
}

func loadCorpus(path string) (*bytemut.Corpus, error) {
	store, err := corpusdb.Open(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	c, err := store.Corpus()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}
