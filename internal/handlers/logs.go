package handlers

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	helpers "vetusrex/internal/utils/helpres"
)

// AdminLogsHandler — просмотр JSON-логов сервиса за последние дни.
// Файлы пишет lumberjack: текущий app.log и ротированные app-<timestamp>.log[.gz].
type AdminLogsHandler struct {
	LogDir    string
	Retention int // дней
	now       func() time.Time
}

func NewAdminLogsHandler(logDir string) *AdminLogsHandler {
	if logDir == "" {
		logDir = "logs"
	}
	return &AdminLogsHandler{LogDir: logDir, Retention: 7, now: time.Now}
}

var reDay = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ListDays godoc
// @Summary Дни, за которые есть логи
// @Tags admin-logs
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/admin/logs/days [get]
func (h *AdminLogsHandler) ListDays(w http.ResponseWriter, r *http.Request) {
	today := h.now().Local()
	days := []string{}
	for i := 0; i < h.Retention; i++ {
		d := today.AddDate(0, 0, -i).Format("2006-01-02")
		if files, err := h.filesForDay(d); err == nil && len(files) > 0 {
			days = append(days, d)
		}
	}
	sort.Strings(days)
	helpers.JSON(w, http.StatusOK, map[string][]string{"days": days})
}

// GetLogs godoc
// @Summary Логи за день
// @Description Записи JSON-лога за день с фильтром по уровню и подстроке; пагинация курсором по номеру строки.
// @Tags admin-logs
// @Security ApiKeyAuth
// @Produce json
// @Param day query string true "Дата (YYYY-MM-DD)"
// @Param level query string false "CSV уровней: debug,info,warn,error"
// @Param q query string false "Подстрока (например request_id)"
// @Param limit query int false "Лимит (по умолчанию 200, максимум 1000)"
// @Param cursor query int false "Сколько строк пропустить"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/admin/logs [get]
func (h *AdminLogsHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	day := q.Get("day")
	if !reDay.MatchString(day) {
		helpers.Error(w, http.StatusBadRequest, "day должен быть в формате YYYY-MM-DD")
		return
	}

	levels := map[string]bool{}
	for _, l := range strings.Split(q.Get("level"), ",") {
		if l = strings.ToUpper(strings.TrimSpace(l)); l != "" {
			levels[l] = true
		}
	}
	needle := strings.ToLower(strings.TrimSpace(q.Get("q")))
	limit := clampAtoi(q.Get("limit"), 200, 1, 1000)
	cursor := clampAtoi(q.Get("cursor"), 0, 0, 10_000_000)

	items := []json.RawMessage{}
	lineNo := 0
	err := h.eachLine(day, func(raw []byte) bool {
		lineNo++
		if lineNo <= cursor {
			return true
		}
		if needle != "" && !strings.Contains(strings.ToLower(string(raw)), needle) {
			return true
		}
		var entry struct {
			Level string `json:"level"`
		}
		if json.Unmarshal(raw, &entry) != nil {
			return true
		}
		if len(levels) > 0 && !levels[strings.ToUpper(entry.Level)] {
			return true
		}
		items = append(items, append(json.RawMessage(nil), raw...))
		return len(items) < limit
	})
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "логов за этот день нет")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]any{
		"day":         day,
		"items":       items,
		"next_cursor": lineNo,
	})
}

// filesForDay — ротированные файлы, в имени которых есть дата, и app.log для сегодняшнего дня.
func (h *AdminLogsHandler) filesForDay(day string) ([]string, error) {
	entries, err := os.ReadDir(h.LogDir)
	if err != nil {
		return nil, err
	}
	today := h.now().Local().Format("2006-01-02")

	var files []string
	for _, e := range entries {
		name := e.Name()
		switch {
		case e.IsDir():
		case name == "app.log" && day == today:
			files = append(files, filepath.Join(h.LogDir, name))
		case strings.HasPrefix(name, "app-") && strings.Contains(name, day) &&
			(strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".log.gz")):
			files = append(files, filepath.Join(h.LogDir, name))
		}
	}
	// ротированные (app-...) идут раньше текущего app.log
	sort.Slice(files, func(i, j int) bool {
		bi, bj := filepath.Base(files[i]), filepath.Base(files[j])
		if (bi == "app.log") != (bj == "app.log") {
			return bj == "app.log"
		}
		return bi < bj
	})
	return files, nil
}

func (h *AdminLogsHandler) eachLine(day string, handle func([]byte) bool) error {
	files, err := h.filesForDay(day)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return os.ErrNotExist
	}

	for _, path := range files {
		if !readLines(path, handle) {
			break
		}
	}
	return nil
}

// readLines возвращает false, если handle попросил остановиться.
func readLines(path string, handle func([]byte) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return true
		}
		defer gz.Close()
		reader = gz
	}

	sc := bufio.NewScanner(reader)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if !handle(sc.Bytes()) {
			return false
		}
	}
	return true
}

func clampAtoi(s string, def, min, max int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
