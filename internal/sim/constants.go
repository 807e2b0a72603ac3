package sim

const (
	// InventoryCapacity is the fixed number of slots every player carries.
	InventoryCapacity = 16

	// attackDamage is the flat damage applied per landed AttackNPC command.
	attackDamage = 3
	// attackRange is the maximum Manhattan distance for a melee attack.
	attackRange = 1

	starterHP = 10
	starterMP = 10
)
