package market

import "fmt"

// SymbolCatalog 可用交易对目录
// 交易对列表来自配置，运行期间不变
type SymbolCatalog struct {
	symbols []string
	index   map[string]struct{}
}

// NewSymbolCatalog 创建交易对目录
func NewSymbolCatalog(symbols []string) *SymbolCatalog {
	index := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		index[s] = struct{}{}
	}
	return &SymbolCatalog{
		symbols: symbols,
		index:   index,
	}
}

// Contains 判断交易对是否在目录中
func (c *SymbolCatalog) Contains(symbol string) bool {
	_, ok := c.index[symbol]
	return ok
}

// List 返回全部交易对
func (c *SymbolCatalog) List() []string {
	result := make([]string, len(c.symbols))
	copy(result, c.symbols)
	return result
}

// Require 校验交易对，不在目录中时返回错误
func (c *SymbolCatalog) Require(symbol string) error {
	if !c.Contains(symbol) {
		return fmt.Errorf("不支持的交易对: %s", symbol)
	}
	return nil
}
