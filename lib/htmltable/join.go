package htmltable

// Key identifies one course section. its components are cleaned cell
// texts, so two tables that render the same section with different
// whitespace still agree on the key.
type Key struct {
	Term   string
	Crn    string
	Course string
}

// KeyColumns names the column titles key components are read from.
type KeyColumns struct {
	Term   string
	Crn    string
	Course string
}

func KeyOf(row Row, cols KeyColumns) (Key, error) {
	term, err := row.Text(cols.Term)
	if err != nil {
		return Key{}, err
	}
	crn, err := row.Text(cols.Crn)
	if err != nil {
		return Key{}, err
	}
	course, err := row.Text(cols.Course)
	if err != nil {
		return Key{}, err
	}
	return Key{Term: term, Crn: crn, Course: course}, nil
}

// GroupRows indexes rows by key, also returning the keys in first
// occurrence order. when several rows share a key the first one
// encountered wins and the rest are dropped.
func GroupRows(t *Table, cols KeyColumns) (map[Key]Row, []Key, error) {
	grouped := map[Key]Row{}
	var order []Key
	for _, row := range t.Rows() {
		key, err := KeyOf(row, cols)
		if err != nil {
			return nil, nil, err
		}
		_, seen := grouped[key]
		if seen {
			continue
		}
		grouped[key] = row
		order = append(order, key)
	}
	return grouped, order, nil
}

type JoinedRow struct {
	Key   Key
	Left  Row
	Right Row
}

// InnerJoin pairs up the rows of two tables that share a key. keys
// present in only one table are omitted. output follows the left
// table's row order.
func InnerJoin(left, right *Table, cols KeyColumns) ([]JoinedRow, error) {
	leftGroup, order, err := GroupRows(left, cols)
	if err != nil {
		return nil, err
	}
	rightGroup, _, err := GroupRows(right, cols)
	if err != nil {
		return nil, err
	}

	var joined []JoinedRow
	for _, key := range order {
		rightRow, ok := rightGroup[key]
		if !ok {
			continue
		}
		joined = append(joined, JoinedRow{
			Key:   key,
			Left:  leftGroup[key],
			Right: rightRow,
		})
	}
	return joined, nil
}
