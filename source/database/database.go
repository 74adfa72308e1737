package database

// This contains the means for compute scripts to interact with SQL databases through the 'sql'
// namespace. A script opens a database and gets back a handle, a string it passes to the
// other functions of the namespace.

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.jetify.com/typeid"

	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/values"

	// SQL drivers

	_ "github.com/go-sql-driver/mysql"  // MariaDB & MySQL
	_ "github.com/lib/pq"               // Postgres
	_ "github.com/microsoft/go-mssqldb" // SQL Server
	_ "github.com/nakagami/firebirdsql" // Firebird
	_ "github.com/sijms/go-ora"         // Oracle
	_ "modernc.org/sqlite"              // SQLite
)

// From the names scripts use to the names the drivers register.
var drivers = map[string]string{"firebirdsql": "firebirdsql", "mariadb": "mysql", "mysql": "mysql",
	"oracle": "oracle", "postgres": "postgres", "sqlite": "sqlite", "sqlserver": "sqlserver"}

func GetSortedDrivers() []string {
	dr := []string{}
	for k := range drivers {
		dr = append(dr, k)
	}
	sort.Strings(dr)
	return dr
}

type Databases struct {
	open map[string]*sql.DB
}

func New() *Databases {
	return &Databases{open: map[string]*sql.DB{}}
}

// Open connects to a database and returns the handle to it.
func (d *Databases) Open(driver, dsn string) (string, error) {
	goDriver, ok := drivers[strings.ToLower(driver)]
	if !ok {
		return "", report.CreateErr("eval/sql/driver", nil, driver, strings.Join(GetSortedDrivers(), ", "))
	}
	db, err := sql.Open(goDriver, dsn)
	if err != nil {
		return "", report.WrapErr("eval/sql/open", nil, err, driver)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return "", report.WrapErr("eval/sql/open", nil, err, driver)
	}
	id, err := typeid.WithPrefix("db")
	if err != nil {
		db.Close()
		return "", report.WrapErr("internal", nil, err)
	}
	d.open[id.String()] = db
	return id.String(), nil
}

func (d *Databases) get(handle string) (*sql.DB, error) {
	db, ok := d.open[handle]
	if !ok {
		return nil, report.CreateErr("eval/sql/handle", nil, handle)
	}
	return db, nil
}

// Exec runs a statement and returns the number of rows it affected.
func (d *Databases) Exec(handle, query string, args []values.Value) (int64, error) {
	db, err := d.get(handle)
	if err != nil {
		return 0, err
	}
	goArgs, err := toGo(args)
	if err != nil {
		return 0, err
	}
	result, err := db.Exec(query, goArgs...)
	if err != nil {
		return 0, report.WrapErr("eval/sql/exec", nil, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, nil // Not every driver can say.
	}
	return n, nil
}

// Query runs a query and returns its rows, each as an array of column values.
func (d *Databases) Query(handle, query string, args []values.Value) (values.Array, error) {
	db, err := d.get(handle)
	if err != nil {
		return values.Array{}, err
	}
	goArgs, err := toGo(args)
	if err != nil {
		return values.Array{}, err
	}
	rows, err := db.Query(query, goArgs...)
	if err != nil {
		return values.Array{}, report.WrapErr("eval/sql/exec", nil, err)
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return values.Array{}, report.WrapErr("eval/sql/exec", nil, err)
	}
	result := []values.Value{}
	for rows.Next() {
		cells := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range cells {
			pointers[i] = &cells[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return values.Array{}, report.WrapErr("eval/sql/exec", nil, err)
		}
		row := make([]values.Value, len(cells))
		for i, cell := range cells {
			row[i] = fromGo(cell)
		}
		result = append(result, values.NewArray(row))
	}
	if err := rows.Err(); err != nil {
		return values.Array{}, report.WrapErr("eval/sql/exec", nil, err)
	}
	return values.NewArray(result), nil
}

func (d *Databases) Close(handle string) error {
	db, err := d.get(handle)
	if err != nil {
		return err
	}
	delete(d.open, handle)
	if err := db.Close(); err != nil {
		return report.WrapErr("eval/sql/exec", nil, err)
	}
	return nil
}

// CloseAll is called at the end of a run for whatever the script left open.
func (d *Databases) CloseAll() {
	for handle, db := range d.open {
		db.Close()
		delete(d.open, handle)
	}
}

func toGo(args []values.Value) ([]any, error) {
	result := make([]any, len(args))
	for i, arg := range args {
		switch arg := arg.(type) {
		case values.Integer:
			result[i] = int64(arg)
		case values.Float:
			result[i] = float64(arg)
		case values.String:
			result[i] = string(arg)
		case values.Bool:
			result[i] = bool(arg)
		case values.Null:
			result[i] = nil
		default:
			return nil, report.CreateErr("eval/sql/arg", nil, values.Describe(arg))
		}
	}
	return result, nil
}

func fromGo(cell any) values.Value {
	switch cell := cell.(type) {
	case nil:
		return values.NULL
	case int64:
		return values.Integer(cell)
	case int32:
		return values.Integer(cell)
	case float64:
		return values.Float(cell)
	case float32:
		return values.Float(cell)
	case bool:
		return values.Bool(cell)
	case string:
		return values.String(cell)
	case []byte:
		return values.String(string(cell))
	case time.Time:
		return values.String(cell.Format(time.RFC3339))
	}
	return values.String(fmt.Sprint(cell))
}
