package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/i18n"
	"ledger/internal/report"
	"ledger/internal/services"
)

var errUsage = errors.New("usage")

const usage = `usage: ledger <command> [flags]

commands:
  add        -type income|expense -title T -category C -amount N [-date YYYY-MM-DD]
  edit       -id ID -type ... -title ... -category ... -amount ... [-date ...]
  rm         ID
  list       [-date YYYY-MM-DD]
  account    add -name N [-balance N] | rm ID | list
  category   add NAME | rm NAME | list
  settings   show | set [-currency C] [-language L] [-startday D]
  summary    [-date YYYY-MM-DD]
  report     [-month YYYY-MM]
  breakdown  [-month YYYY-MM] [-type income|expense]
  export     [-dir DIR]
  clear      [-yes]
`

var (
	incomeColor  = color.New(color.FgGreen)
	expenseColor = color.New(color.FgRed)
	headerColor  = color.New(color.Bold)
)

type app struct {
	svc       *services.FinanceService
	out       io.Writer
	in        io.Reader
	exportDir string
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage()
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "add":
		return a.add(ctx, rest)
	case "edit":
		return a.edit(ctx, rest)
	case "rm":
		return a.remove(ctx, rest)
	case "list":
		return a.list(rest)
	case "account":
		return a.account(ctx, rest)
	case "category":
		return a.category(ctx, rest)
	case "settings":
		return a.settings(ctx, rest)
	case "summary":
		return a.summary(rest)
	case "report":
		return a.report(rest)
	case "breakdown":
		return a.breakdown(rest)
	case "export":
		return a.export(ctx, rest)
	case "clear":
		return a.clear(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprintf(a.out, "unknown command %q\n", cmd)
		return a.usage()
	}
}

func (a *app) usage() error {
	fmt.Fprint(a.out, usage)
	return errUsage
}

func (a *app) lang() string {
	return a.svc.Settings().Language
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

type txFlags struct {
	typ, title, category, amount, date string
}

func (f *txFlags) bind(fs *flag.FlagSet, defaultType string) {
	fs.StringVar(&f.typ, "type", defaultType, "income or expense")
	fs.StringVar(&f.title, "title", "", "transaction title")
	fs.StringVar(&f.category, "category", "", "category name")
	fs.StringVar(&f.amount, "amount", "", "positive amount")
	fs.StringVar(&f.date, "date", "", "date (YYYY-MM-DD), default today")
}

func (f *txFlags) input() (core.TransactionInput, error) {
	typ, err := core.ParseTransactionType(f.typ)
	if err != nil {
		return core.TransactionInput{}, err
	}
	amount, err := core.ParseAmount(f.amount)
	if err != nil {
		return core.TransactionInput{}, err
	}
	return core.TransactionInput{
		Type:     typ,
		Title:    f.title,
		Category: f.category,
		Amount:   amount,
		Date:     f.date,
	}, nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := a.newFlagSet("add")
	var f txFlags
	f.bind(fs, "expense")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	in, err := f.input()
	if err != nil {
		return err
	}
	tx, err := a.svc.AddTransaction(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added %d %s\n", tx.ID, a.signed(tx))
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	fs := a.newFlagSet("edit")
	var f txFlags
	id := fs.Int64("id", 0, "transaction id")
	f.bind(fs, "")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	// Without -type the stored type is kept.
	if f.typ == "" {
		cur, err := a.svc.Transaction(*id)
		if err != nil {
			return err
		}
		f.typ = string(cur.Type)
	}
	in, err := f.input()
	if err != nil {
		return err
	}
	tx, err := a.svc.UpdateTransaction(ctx, *id, core.TransactionEdit(in))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "updated %d %s\n", tx.ID, a.signed(tx))
	return nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if !a.svc.DeleteTransaction(ctx, id) {
		fmt.Fprintf(a.out, "transaction %d not found, nothing removed\n", id)
		return nil
	}
	fmt.Fprintf(a.out, "removed %d\n", id)
	return nil
}

func (a *app) list(args []string) error {
	fs := a.newFlagSet("list")
	date := fs.String("date", "", "only transactions of this date")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	txs := a.svc.Transactions()
	if *date != "" {
		var err error
		if txs, err = a.svc.DailyTransactions(*date); err != nil {
			return err
		}
	}
	if len(txs) == 0 {
		fmt.Fprintln(a.out, i18n.T(a.lang(), i18n.NoTransactions))
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerColor.Sprint("ID\tDATE\tCATEGORY\tTITLE\tAMOUNT"))
	for _, tx := range txs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", tx.ID, tx.Date, tx.Category, tx.Title, a.signed(tx))
	}
	return tw.Flush()
}

// signed renders a transaction amount with its direction and colour.
func (a *app) signed(tx core.Transaction) string {
	if tx.Type == core.Income {
		return incomeColor.Sprint("+" + a.svc.FormatCurrency(tx.Amount))
	}
	return expenseColor.Sprint("-" + a.svc.FormatCurrency(tx.Amount))
}

func (a *app) money(d decimal.Decimal) string {
	s := a.svc.FormatCurrency(d)
	if d.IsNegative() {
		return expenseColor.Sprint("-" + s)
	}
	return s
}

func (a *app) account(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage()
	}
	switch args[0] {
	case "add":
		fs := a.newFlagSet("account add")
		name := fs.String("name", "", "account name")
		balance := fs.String("balance", "0", "opening balance")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}
		acc, err := a.svc.AddAccount(ctx, *name, *balance)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "added account %d %s %s\n", acc.ID, acc.Name, a.money(acc.Balance))
		return nil
	case "rm":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		if !a.svc.DeleteAccount(ctx, id) {
			fmt.Fprintf(a.out, "account %d not found, nothing removed\n", id)
			return nil
		}
		fmt.Fprintf(a.out, "removed account %d\n", id)
		return nil
	case "list":
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, headerColor.Sprint("ID\tNAME\tBALANCE"))
		for _, acc := range a.svc.Accounts() {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", acc.ID, acc.Name, a.money(acc.Balance))
		}
		return tw.Flush()
	default:
		return a.usage()
	}
}

func (a *app) category(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage()
	}
	switch args[0] {
	case "add":
		if len(args) < 2 {
			return a.usage()
		}
		name := strings.Join(args[1:], " ")
		if err := a.svc.AddCategory(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "added category %s\n", strings.TrimSpace(name))
		return nil
	case "rm":
		if len(args) < 2 {
			return a.usage()
		}
		a.svc.RemoveCategory(ctx, strings.Join(args[1:], " "))
		return nil
	case "list":
		for _, c := range a.svc.Categories() {
			fmt.Fprintln(a.out, c)
		}
		return nil
	default:
		return a.usage()
	}
}

func (a *app) settings(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "show" {
		s := a.svc.Settings()
		fmt.Fprintf(a.out, "currency: %s\nlanguage: %s\nstartDay: %s\n", s.Currency, s.Language, s.StartDay)
		return nil
	}
	if args[0] != "set" {
		return a.usage()
	}
	fs := a.newFlagSet("settings set")
	currency := fs.String("currency", "", "ISO 4217 currency code")
	language := fs.String("language", "", "id or en")
	startDay := fs.String("startday", "", "first day of the financial month")
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}
	a.svc.SaveSettings(ctx, *currency, *language, *startDay)
	fmt.Fprintln(a.out, i18n.T(a.lang(), i18n.SettingsSaved))
	return nil
}

func (a *app) summary(args []string) error {
	fs := a.newFlagSet("summary")
	date := fs.String("date", a.svc.Today(), "date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	sum, err := a.svc.DailySummary(*date)
	if err != nil {
		return err
	}

	lang := a.lang()
	diff := a.svc.FormatCurrency(sum.Difference)
	if sum.Positive() {
		diff = incomeColor.Sprint(diff)
	} else {
		diff = expenseColor.Sprint("-" + diff)
	}
	fmt.Fprintln(a.out, headerColor.Sprint(sum.Date))
	fmt.Fprintf(a.out, "%s: %s\n", i18n.T(lang, i18n.Income), incomeColor.Sprint(a.svc.FormatCurrency(sum.Income)))
	fmt.Fprintf(a.out, "%s: %s\n", i18n.T(lang, i18n.Expense), expenseColor.Sprint(a.svc.FormatCurrency(sum.Expense)))
	fmt.Fprintf(a.out, "%s: %s\n", i18n.T(lang, i18n.Difference), diff)
	return nil
}

func (a *app) report(args []string) error {
	fs := a.newFlagSet("report")
	month := fs.String("month", report.MonthOf(a.svc.Today()), "month (YYYY-MM)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	rep, err := a.svc.MonthlyReport(*month)
	if err != nil {
		return err
	}

	lang := a.lang()
	net := a.svc.FormatCurrency(rep.NetAccountBalance)
	if rep.Positive() {
		net = incomeColor.Sprint(net)
	} else {
		net = expenseColor.Sprint("-" + net)
	}
	fmt.Fprintln(a.out, headerColor.Sprintf("%s %s", i18n.T(lang, i18n.Report), rep.Month))
	fmt.Fprintf(a.out, "%s: %s\n", i18n.T(lang, i18n.Income), incomeColor.Sprint(a.svc.FormatCurrency(rep.Income)))
	fmt.Fprintf(a.out, "%s: %s\n", i18n.T(lang, i18n.Expense), expenseColor.Sprint(a.svc.FormatCurrency(rep.Expense)))
	fmt.Fprintf(a.out, "%s: %s\n", i18n.T(lang, i18n.NetBalance), net)
	return nil
}

func (a *app) breakdown(args []string) error {
	fs := a.newFlagSet("breakdown")
	month := fs.String("month", report.MonthOf(a.svc.Today()), "month (YYYY-MM)")
	typ := fs.String("type", "expense", "income or expense")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	t, err := core.ParseTransactionType(*typ)
	if err != nil {
		return err
	}
	totals, err := a.svc.CategoryBreakdown(*month, t)
	if err != nil {
		return err
	}

	rows := make([]core.CategoryTotal, 0, len(totals))
	for name, amount := range totals {
		rows = append(rows, core.CategoryTotal{Category: name, Amount: amount})
	}
	key := i18n.ExpenseChart
	if t == core.Income {
		key = i18n.IncomeChart
	}
	fmt.Fprintln(a.out, headerColor.Sprint(i18n.T(a.lang(), key, *month)))

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, row := range report.SortByAmount(rows) {
		fmt.Fprintf(tw, "%s\t%s\n", row.Category, a.svc.FormatCurrency(row.Amount))
	}
	return tw.Flush()
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := a.newFlagSet("export")
	dir := fs.String("dir", a.exportDir, "destination directory")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	path, err := a.svc.ExportFile(ctx, *dir)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, path)
	return nil
}

func (a *app) clear(ctx context.Context, args []string) error {
	fs := a.newFlagSet("clear")
	yes := fs.Bool("yes", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	lang := a.lang()
	if !*yes {
		fmt.Fprintf(a.out, "%s [y/N] ", i18n.T(lang, i18n.ConfirmClear))
		answer, _ := bufio.NewReader(a.in).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes", "ya":
		default:
			return nil
		}
	}
	a.svc.ClearAll(ctx)
	fmt.Fprintln(a.out, i18n.T(lang, i18n.DataCleared))
	return nil
}
