package hiring

// NamePolicy は部署名・職種名として受け入れ可能かを判定します。
type NamePolicy interface {
	Allows(name string) bool
}

// AnyName は任意の文字列を受け入れます。
type AnyName struct{}

// Allows は常に true を返します。
func (AnyName) Allows(string) bool { return true }

// NameSet は列挙された名前のみを受け入れます。比較は大文字小文字を区別します。
type NameSet struct {
	names map[string]struct{}
}

// NewNameSet は NameSet を生成します。
func NewNameSet(names ...string) NameSet {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return NameSet{names: set}
}

// Allows は name が列挙に含まれる場合に true を返します。
func (s NameSet) Allows(name string) bool {
	_, ok := s.names[name]
	return ok
}

// PolicyFor は許可リストが空なら AnyName、そうでなければ NameSet を返します。
func PolicyFor(names []string) NamePolicy {
	if len(names) == 0 {
		return AnyName{}
	}
	return NewNameSet(names...)
}
