package catalogrepo

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/project-eman-Farah/dev-library/model"
)

// Repo persists the whole catalog to one flat text file, one record per
// line: TYPE,title,creator,id,copies,available,borrowedBy|null,dueDate|null.
// There is no escaping; a comma inside a title corrupts that record.
type Repo interface {
	Load() (*model.Catalog, error)
	Save(cat *model.Catalog) error
}

type repo struct {
	path string
	log  zerolog.Logger
}

func New(path string, log zerolog.Logger) Repo {
	return &repo{path: path, log: log}
}

const fieldCount = 8

// Load rebuilds the catalog from the store file, creating the file when it
// does not exist yet. Records that do not parse are skipped, not fatal.
func (r *repo) Load() (*model.Catalog, error) {
	if err := r.ensureFile(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, errors.Wrap(err, "open library file")
	}
	defer f.Close()

	cat := model.NewCatalog()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		item, copies, ok := parseLine(line)
		if !ok {
			r.log.Warn().Str("line", line).Msg("skipping malformed record")
			continue
		}

		switch item.Kind {
		case model.KindBook:
			cat.Books = append(cat.Books, item)
		case model.KindCD:
			cat.CDs = append(cat.CDs, item)
		}
		cat.StockFor(item.Kind).Restore(item.ID, copies, !item.Available)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read library file")
	}

	return cat, nil
}

// Save rewrites the whole store file from the in-memory catalog. No diffing,
// no journal: last write wins.
func (r *repo) Save(cat *model.Catalog) error {
	var b strings.Builder
	for _, m := range cat.Books {
		writeLine(&b, m, cat.BookStock.Count(m.ID))
	}
	for _, m := range cat.CDs {
		writeLine(&b, m, cat.CDStock.Count(m.ID))
	}

	if err := os.WriteFile(r.path, []byte(b.String()), 0o644); err != nil {
		return errors.Wrap(err, "write library file")
	}
	return nil
}

func (r *repo) ensureFile() error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "create library file")
	}
	return f.Close()
}

func parseLine(line string) (*model.Media, int, bool) {
	p := strings.Split(line, ",")
	if len(p) < fieldCount {
		return nil, 0, false
	}

	kind := model.Kind(p[0])
	if kind != model.KindBook && kind != model.KindCD {
		return nil, 0, false
	}

	copies, err := strconv.Atoi(p[4])
	if err != nil {
		return nil, 0, false
	}
	available, err := strconv.ParseBool(p[5])
	if err != nil {
		return nil, 0, false
	}

	m := &model.Media{
		Kind:      kind,
		Title:     p[1],
		Creator:   p[2],
		ID:        p[3],
		Available: available,
	}
	if p[6] != "null" {
		m.BorrowedBy = p[6]
	}
	if p[7] != "null" {
		due, err := time.Parse(model.DateLayout, p[7])
		if err != nil {
			return nil, 0, false
		}
		m.DueDate = &due
	}
	return m, copies, true
}

func writeLine(b *strings.Builder, m *model.Media, copies int) {
	borrowed := "null"
	if m.BorrowedBy != "" {
		borrowed = m.BorrowedBy
	}
	due := "null"
	if m.DueDate != nil {
		due = m.DueDate.Format(model.DateLayout)
	}

	b.WriteString(strings.Join([]string{
		string(m.Kind),
		m.Title,
		m.Creator,
		m.ID,
		strconv.Itoa(copies),
		strconv.FormatBool(m.Available),
		borrowed,
		due,
	}, ","))
	b.WriteByte('\n')
}
